package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// Fayl nomlari
const (
	ItemsFile     = "menu_items.json"
	TemplatesFile = "response_templates.json"
	StructureFile = "menu_structure.json"
	TextFile      = "menu_knowledge_base.txt"
)

type fileStore struct {
	dir string
}

// NewFileStore katalogdagi JSON/matn fayllari asosidagi bilimlar bazasi
func NewFileStore(dir string) repository.KnowledgeStore {
	return &fileStore{dir: dir}
}

func (s *fileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load fayllarni o'qish
func (s *fileStore) Load(ctx context.Context) (*repository.KnowledgeSnapshot, error) {
	snap := &repository.KnowledgeSnapshot{}

	if err := readJSON(s.path(TemplatesFile), &snap.Templates); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	if err := readJSON(s.path(ItemsFile), &snap.Items); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	var structure map[string][]structureEntry
	switch err := readJSON(s.path(StructureFile), &structure); {
	case err == nil:
		snap.Sections = sectionsFromStructure(structure)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("load menu structure: %w", err)
	}

	text, err := os.ReadFile(s.path(TextFile))
	switch {
	case err == nil:
		snap.Text = string(text)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("load knowledge text: %w", err)
	}

	return snap, ctx.Err()
}

// Save nil bo'lmagan qismlarni yozish
func (s *fileStore) Save(ctx context.Context, snap repository.KnowledgeSnapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if snap.Items != nil {
		data, err := encodeJSON(snap.Items)
		if err != nil {
			return fmt.Errorf("encode menu items: %w", err)
		}
		if err := writeFile(s.path(ItemsFile), data); err != nil {
			return err
		}
	}

	if snap.Sections != nil {
		data, err := encodeStructure(snap.Sections)
		if err != nil {
			return fmt.Errorf("encode menu structure: %w", err)
		}
		if err := writeFile(s.path(StructureFile), data); err != nil {
			return err
		}
	}

	if snap.Text != "" {
		if err := writeFile(s.path(TextFile), []byte(snap.Text)); err != nil {
			return err
		}
	}

	if snap.Templates != nil {
		if _, err := os.Stat(s.path(TemplatesFile)); errors.Is(err, os.ErrNotExist) {
			data, err := encodeJSON(snap.Templates)
			if err != nil {
				return fmt.Errorf("encode templates: %w", err)
			}
			if err := writeFile(s.path(TemplatesFile), data); err != nil {
				return err
			}
		}
	}

	return ctx.Err()
}

// structureEntry menu_structure.json dagi element: satr yoki mahsulot obyekti
type structureEntry struct {
	Name string
}

func (e *structureEntry) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &e.Name); err == nil {
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("structure entry must be a string or an object with name: %w", err)
	}
	e.Name = obj.Name
	return nil
}

func sectionsFromStructure(structure map[string][]structureEntry) []entity.MenuSection {
	groups := make(map[string][]string, len(structure))
	for category, entries := range structure {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Name != "" {
				names = append(names, e.Name)
			}
		}
		groups[category] = names
	}
	return entity.OrderSections(groups)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeStructure bo'limlar tartibini saqlagan holda JSON obyekt yozish
func encodeStructure(sections []entity.MenuSection) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, section := range sections {
		key, err := encodeJSON(section.Category)
		if err != nil {
			return nil, err
		}
		items := section.Items
		if items == nil {
			items = []string{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "\n  %s: %s", bytes.TrimSpace(key), value)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// writeFile vaqtinchalik faylga yozib, keyin almashtirish
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
