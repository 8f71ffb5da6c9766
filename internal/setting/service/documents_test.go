package service

import (
	"context"
	"testing"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/stretchr/testify/require"
)

func TestRenderDocTemplate(t *testing.T) {
	st := newTestStore(t)
	org := createOrg(t, st, "Clinica Aurora")
	owner := createUser(t, st, org.ID, "ana@aurora.test", domain.RoleAdmin)
	svc := &DocTemplateService{Store: st}
	ctx := context.Background()

	tpl, err := svc.Add(ctx, org.ID, owner.ID, "Contrato",
		"Profissional: {{PROFISSIONAL_NOME}} (CRP: {{CRP}})\nTolerância: {{TOLERANCIA_MIN}} min\nPagamento: {{PAGAMENTO_REGRAS}}")
	require.NoError(t, err)

	t.Run("substitutes provided fields", func(t *testing.T) {
		out, err := svc.Render(ctx, org.ID, tpl.ID, RenderFields{
			ProfessionalName: "Ana Souza",
			CRP:              "06/12345",
			ToleranceMinutes: "15",
			PaymentRules:     "PIX até o dia da sessão",
		})
		require.NoError(t, err)
		require.Equal(t, "Profissional: Ana Souza (CRP: 06/12345)\nTolerância: 15 min\nPagamento: PIX até o dia da sessão", out)
	})

	t.Run("missing fields become blanks, tolerance defaults", func(t *testing.T) {
		out, err := svc.Render(ctx, org.ID, tpl.ID, RenderFields{})
		require.NoError(t, err)
		require.Equal(t, "Profissional: __________ (CRP: __________)\nTolerância: 10 min\nPagamento: __________", out)
	})

	t.Run("other clinics cannot render it", func(t *testing.T) {
		boreal := createOrg(t, st, "Clinica Boreal")
		_, err := svc.Render(ctx, boreal.ID, tpl.ID, RenderFields{})
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestDocTemplateUpdateScoping(t *testing.T) {
	st := newTestStore(t)
	aurora := createOrg(t, st, "Clinica Aurora")
	boreal := createOrg(t, st, "Clinica Boreal")
	owner := createUser(t, st, aurora.ID, "ana@aurora.test", domain.RoleAdmin)
	svc := &DocTemplateService{Store: st}
	ctx := context.Background()

	tpl, err := svc.Add(ctx, aurora.ID, owner.ID, "Termo", "corpo")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Update(ctx, boreal.ID, tpl.ID, "Invadido", "x"), ErrDocumentNotFound)

	require.NoError(t, svc.Update(ctx, aurora.ID, tpl.ID, "Termo v2", "corpo novo"))
	list, err := svc.List(ctx, aurora.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Termo v2", list[0].Name)
	require.Equal(t, "corpo novo", list[0].Body)
}
