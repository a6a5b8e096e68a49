package entity

import "time"

// ConversationTurn foydalanuvchining bitta xabari
type ConversationTurn struct {
	ID        string
	UserID    string
	Message   string
	Timestamp time.Time
}

// ChatContext foydalanuvchi suhbat kontekstini saqlash uchun.
// Total o'chirilgan xabarlarni ham hisoblaydi.
type ChatContext struct {
	UserID   string
	Turns    []ConversationTurn
	Total    int
	LastUsed time.Time
}

// GenerationRequest generativ javob uchun so'rov
type GenerationRequest struct {
	UserID  string
	Context string
	Message string
}

const personaIntro = "Eres Prana, el asistente virtual de Prana Juice Bar. Eres amigable, profesional y conoces todo sobre nuestro menú y servicios."

const personaRules = `INSTRUCCIONES:
- Responde en español de manera natural y amigable
- Usa el nombre "Prana" para referirte a ti mismo
- Proporciona información precisa sobre el menú, precios, horarios y ubicación
- Si no tienes información específica, sugiere que el cliente pregunte por el menú completo
- Mantén un tono cálido y profesional
- No inventes información que no esté en el contexto`

// PersonaInstructions generativ model uchun doimiy ko'rsatmalar
const PersonaInstructions = personaIntro + "\n\n" + personaRules

// Prompt kontekst va xabarni bitta matnli promptga yig'ish
func (r GenerationRequest) Prompt() string {
	return personaIntro + "\n\nCONTEXTO:\n" + r.Context + "\n\n" + personaRules +
		"\n\nMENSAJE ACTUAL DEL CLIENTE: " + r.Message + "\n\nRESPUESTA:"
}
