package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contia/internal/domain"
)

func TestSameEntity(t *testing.T) {
	names := []string{"Mi Empresa SL", "Mi Empresa Sociedad Limitada"}

	assert.True(t, SameEntity("mi empresa, s.l.", names))
	assert.True(t, SameEntity("MI-EMPRESA S.L.", names))
	assert.False(t, SameEntity("Otra Empresa SL", names))
	assert.False(t, SameEntity("", names))
	assert.False(t, SameEntity("...", names))
}

func TestHasLegalForm(t *testing.T) {
	assert.True(t, HasLegalForm("Acme S.L."))
	assert.True(t, HasLegalForm("Acme SLU"))
	assert.True(t, HasLegalForm("Widgets Ltd"))
	assert.True(t, HasLegalForm("Fabrik GmbH"))
	assert.False(t, HasLegalForm("Juan Garcia"))
}

func TestLooksLikePerson(t *testing.T) {
	assert.True(t, LooksLikePerson("Juan Garcia"))
	assert.True(t, LooksLikePerson("Maria del Carmen"))
	assert.False(t, LooksLikePerson("Juan Garcia SL"), "legal form wins")
	assert.False(t, LooksLikePerson("Ferreteria"))
	assert.False(t, LooksLikePerson("J G"), "single-letter tokens")
	assert.False(t, LooksLikePerson(""))
}

func TestContainsForbiddenKeyword(t *testing.T) {
	assert.True(t, ContainsForbiddenKeyword("Vendedor: Pedro"))
	assert.True(t, ContainsForbiddenKeyword("Agencia de Transporte"))
	assert.False(t, ContainsForbiddenKeyword("Suministros Lopez SL"))
}

func TestPlausibleCounterparty(t *testing.T) {
	names := []string{"Mi Empresa SL"}

	assert.True(t, PlausibleCounterparty("Suministros Lopez SL", names))
	assert.False(t, PlausibleCounterparty("", names))
	assert.False(t, PlausibleCounterparty("Juan Garcia", names), "person-shaped")
	assert.False(t, PlausibleCounterparty("Transporte Urgente SL", names), "role label")
	assert.False(t, PlausibleCounterparty("Suministros Lopez", names), "no legal form")
	assert.False(t, PlausibleCounterparty("Mi Empresa, S.L.", names), "own company")
}

func TestValidateForSubmit(t *testing.T) {
	names := []string{"Mi Empresa SL"}

	t.Run("consistent expense passes", func(t *testing.T) {
		doc := validDoc(t)
		assert.Nil(t, ValidateForSubmit(doc, names))
	})

	t.Run("collects every problem", func(t *testing.T) {
		doc := &domain.Document{Kind: domain.KindExpense}
		errs := ValidateForSubmit(doc, names)
		fields := map[string]bool{}
		for _, e := range errs {
			fields[e.Field] = true
		}
		assert.True(t, fields[domain.FieldIssueDate])
		assert.True(t, fields[domain.FieldCounterparty])
		assert.True(t, fields[domain.FieldExpenseCategory])
	})

	t.Run("own company is a hard error", func(t *testing.T) {
		doc := validDoc(t)
		doc.Counterparty = "MI EMPRESA, S.L."
		errs := ValidateForSubmit(doc, names)
		assert.Len(t, errs, 1)
		assert.Equal(t, domain.FieldCounterparty, errs[0].Field)
	})

	t.Run("inconsistent total is rejected", func(t *testing.T) {
		doc := validDoc(t)
		doc.TotalAmount = doc.TotalAmount.Add(amountTolerance).Add(amountTolerance)
		errs := ValidateForSubmit(doc, names)
		assert.Len(t, errs, 1)
		assert.Equal(t, domain.FieldTotalAmount, errs[0].Field)
	})
}

func validDoc(t *testing.T) *domain.Document {
	t.Helper()
	issue, err := time.Parse(domain.DateLayout, "2024-03-05")
	require.NoError(t, err)
	return &domain.Document{
		Kind:            domain.KindExpense,
		IssueDate:       issue,
		Counterparty:    "Suministros Lopez SL",
		ExpenseCategory: domain.CategoryWithInvoice,
		BaseAmount:      d(t, "100.00"),
		VatRate:         d(t, "21"),
		VatAmount:       d(t, "21.00"),
		TotalAmount:     d(t, "121.00"),
	}
}
