package service

import (
	"fmt"
	"strings"

	schoolModel "educa_backend/internals/features/schools/schools/model"
)

const baseInstruction = `Você é o "Edu", o assistente virtual oficial da Secretaria de Educação do município de %s.
Sua função é auxiliar pais e responsáveis no processo de matrícula escolar online e tirar dúvidas sobre as escolas da rede.

Informações importantes sobre o processo:
- O período de matrícula está aberto.
- Documentos: Certidão de Nascimento/RG, CPF, Comprovante de Residência, Cartão de Vacinação.
- Alunos com deficiência devem apresentar laudo médico.
- O sistema permite escolher 3 escolas de preferência.
- O portal conta com uma área de "Portal Extra" no menu ou na tela inicial, onde é possível acessar sistemas complementares ou legados (apps externos).
`

const guidelines = `Diretrizes:
1. Use estritamente a lista acima para responder sobre vagas e localização.
2. Se a escola não estiver na lista, informe que não encontrou a unidade na rede municipal.
3. Seja sempre educado, claro e objetivo.
4. Se não souber a resposta, oriente ligar no 156.
`

const noSchools = "Nenhuma escola cadastrada no banco de dados no momento."

// BuildInstruction renders the system instruction from a snapshot of the directory.
func BuildInstruction(municipality string, schools []schoolModel.SchoolModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, baseInstruction, municipality)
	b.WriteString("\nAbaixo está a lista ATUALIZADA de Escolas da Rede Municipal (Dados do Banco de Dados):\n")

	if len(schools) == 0 {
		b.WriteString(noSchools)
		b.WriteString("\n")
	}
	for _, s := range schools {
		inep := "N/A"
		if s.SchoolINEP != nil && strings.TrimSpace(*s.SchoolINEP) != "" {
			inep = *s.SchoolINEP
		}
		fmt.Fprintf(&b, "- Nome: %s\n  Endereço: %s\n  Modalidades: %s\n  Vagas Totais: %d\n  INEP: %s\n",
			s.SchoolName, s.SchoolAddress, strings.Join(s.SchoolTypes, ", "), s.SchoolAvailableSlots, inep)
	}

	b.WriteString("\n")
	b.WriteString(guidelines)
	return b.String()
}
