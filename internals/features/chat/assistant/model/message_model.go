package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message lives only in memory, inside its session's transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Loading   bool      `json:"loading"`
	CreatedAt time.Time `json:"created_at"`
}

// Fixed assistant texts.
const (
	WelcomeText     = "Olá! Sou o Edu, assistente virtual da Secretaria de Educação. Como posso ajudar com a matrícula hoje?"
	UnavailableText = "O assistente virtual está temporariamente indisponível (Erro de Configuração de API)."
	ApologyText     = "Desculpe, estou com dificuldades técnicas de conexão com a IA no momento. Por favor, tente novamente em instantes."
)

// Quick-start prompts shown while the transcript holds only the welcome.
var Suggestions = []string{
	"Documentos necessários",
	"Prazos de matrícula",
	"Quais escolas tem vaga?",
}
