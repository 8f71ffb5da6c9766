package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/store"
	"github.com/settingbr/setting/pkg/idx"
)

var ErrDocumentNotFound = errors.New("document template not found")

// DocTemplateService manages per-clinic document templates and their
// plain-text rendering.
type DocTemplateService struct {
	Store store.Store
}

// RenderFields are the values substituted into a template body. Empty
// fields render as a fill-in-by-hand blank, except the tolerance which
// defaults to ten minutes.
type RenderFields struct {
	ProfessionalName  string
	CRP               string
	PatientName       string
	Date              string
	ToleranceMinutes  string
	PaymentRules      string
	ReschedulingRules string
	ContactWindow     string
}

const renderBlank = "__________"

// DefaultTemplates are the draft documents every new clinic starts with.
var DefaultTemplates = []struct {
	Name string
	Body string
}{
	{
		Name: "Termo de consentimento para psicoterapia on-line (rascunho)",
		Body: `TERMO DE CONSENTIMENTO PARA PSICOTERAPIA ON-LINE

Profissional: {{PROFISSIONAL_NOME}} (CRP: {{CRP}})
Paciente: {{PACIENTE_NOME}}
Data: {{DATA}}

1. Objetivo
Este termo registra o consentimento informado para a realização de psicoterapia por meios digitais.

2. Confidencialidade e privacidade
As sessões dependem de condições mínimas de privacidade (ambiente reservado, uso de fones quando necessário, ausência de terceiros).

3. Registros e armazenamento
O profissional realizará registros clínicos mínimos necessários, mantendo sigilo e segurança conforme legislação aplicável.

4. Limites e emergências
Este atendimento não substitui serviços de urgência/emergência. Em risco imediato, procure o serviço local e/ou acione contatos de emergência.

Assinaturas:
Profissional: ______________________
Paciente: _________________________
`,
	},
	{
		Name: "Contrato terapêutico e combinados do setting on-line (rascunho)",
		Body: `COMBINADOS DO SETTING ON-LINE

Profissional: {{PROFISSIONAL_NOME}} (CRP: {{CRP}})
Paciente: {{PACIENTE_NOME}}

- Pontualidade: tolerância de {{TOLERANCIA_MIN}} minutos.
- Pagamento: {{PAGAMENTO_REGRAS}}
- Reagendamento/cancelamento: {{REAGENDAMENTO_REGRAS}}
- Ambiente: paciente se compromete a buscar local privado e estável.
- Comunicação entre sessões: {{JANELA_CONTATO}}

Assinaturas:
Profissional: ______________________
Paciente: _________________________
`,
	},
}

// List returns the organization's templates.
func (s *DocTemplateService) List(ctx context.Context, orgID string) ([]domain.DocTemplate, error) {
	return s.Store.DocTemplates().ListDocTemplatesByOrg(ctx, orgID)
}

// Add creates a template owned by the acting user.
func (s *DocTemplateService) Add(ctx context.Context, orgID, ownerID, name, body string) (domain.DocTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DocTemplate{}, ErrDocumentNotFound
	}
	t := domain.DocTemplate{
		ID:             idx.New().String(),
		OwnerID:        ownerID,
		OrganizationID: orgID,
		Name:           name,
		Body:           body,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Store.DocTemplates().CreateDocTemplate(ctx, t); err != nil {
		return domain.DocTemplate{}, err
	}
	return t, nil
}

// Update replaces a template's name and body within the organization.
func (s *DocTemplateService) Update(ctx context.Context, orgID, templateID, name, body string) error {
	err := s.Store.DocTemplates().UpdateDocTemplateInOrg(ctx, orgID, domain.DocTemplate{
		ID:   templateID,
		Name: strings.TrimSpace(name),
		Body: body,
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrDocumentNotFound
	}
	return err
}

// Render produces the plain-text document for a template, substituting the
// placeholder tokens with the given fields.
func (s *DocTemplateService) Render(ctx context.Context, orgID, templateID string, f RenderFields) (string, error) {
	t, err := s.Store.DocTemplates().GetDocTemplateInOrg(ctx, orgID, templateID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrDocumentNotFound
	}
	if err != nil {
		return "", err
	}

	tolerance := f.ToleranceMinutes
	if tolerance == "" {
		tolerance = "10"
	}

	repl := strings.NewReplacer(
		"{{PROFISSIONAL_NOME}}", orBlank(f.ProfessionalName),
		"{{CRP}}", orBlank(f.CRP),
		"{{PACIENTE_NOME}}", orBlank(f.PatientName),
		"{{DATA}}", orBlank(f.Date),
		"{{TOLERANCIA_MIN}}", tolerance,
		"{{PAGAMENTO_REGRAS}}", orBlank(f.PaymentRules),
		"{{REAGENDAMENTO_REGRAS}}", orBlank(f.ReschedulingRules),
		"{{JANELA_CONTATO}}", orBlank(f.ContactWindow),
	)
	return repl.Replace(t.Body), nil
}

func orBlank(s string) string {
	if s == "" {
		return renderBlank
	}
	return s
}
