package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-cli/internal/model"
)

func TestMerge_Precedence(t *testing.T) {
	t.Parallel()

	working := model.Lead{
		CompanyName:   "Acme",
		OwnerName:     "Enriched Owner",
		Industry:      "Retail",
		EmployeeCount: "N/A",
		Phone:         "  512-555-0101 ",
	}
	human := model.HumanFields{model.FieldCompanyName: "Acme Corp"}
	primary := &Analysis{OwnerName: "Jane Doe", Industry: "N/A"}
	secondary := &Analysis{OwnerName: "J. Doe", Industry: "Technology", EmployeeCount: "10-50"}

	got := Merge(working, human, primary, secondary)

	tests := []struct {
		field model.Field
		value string
		src   model.FieldSource
	}{
		{model.FieldCompanyName, "Acme Corp", model.FromHuman},
		{model.FieldOwnerName, "Jane Doe", model.FromPrimaryAI},
		{model.FieldIndustry, "Technology", model.FromSecondary},
		{model.FieldEmployeeCount, "10-50", model.FromSecondary},
		{model.FieldPhone, "512-555-0101", model.FromEnrichment},
		{model.FieldRevenue, model.NA, model.FromNA},
		{model.FieldWebsite, model.NA, model.FromNA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.value, got.Get(tt.field), tt.field)
		assert.Equal(t, tt.src, got.FieldSources[tt.field], tt.field)
	}
	assert.Nil(t, working.FieldSources)
}

func TestMerge_AIDoesNotReachNonAIFields(t *testing.T) {
	t.Parallel()

	got := Merge(model.Lead{City: "Austin"}, nil, &Analysis{OwnerName: "Jane Doe"}, nil)
	assert.Equal(t, "Austin", got.City)
	assert.Equal(t, model.FromEnrichment, got.FieldSources[model.FieldCity])
}

func TestMerge_BusinessDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		human     model.HumanFields
		primary   *Analysis
		secondary *Analysis
		want      string
		src       model.FieldSource
	}{
		{
			name:      "both",
			primary:   &Analysis{BusinessDetails: "A"},
			secondary: &Analysis{BusinessDetails: "B"},
			want:      "[Primary] A\n\n[Secondary] B",
			src:       model.FromBothAI,
		},
		{
			name:      "secondary_empty",
			primary:   &Analysis{BusinessDetails: "A"},
			secondary: &Analysis{},
			want:      "A",
			src:       model.FromPrimaryAI,
		},
		{
			name:      "human",
			human:     model.HumanFields{model.FieldBusinessDetails: "Typed"},
			primary:   &Analysis{BusinessDetails: "A"},
			secondary: &Analysis{BusinessDetails: "B"},
			want:      "Typed",
			src:       model.FromHuman,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Merge(model.Lead{BusinessDetails: "enriched"}, tt.human, tt.primary, tt.secondary)
			assert.Equal(t, tt.want, got.BusinessDetails)
			assert.Equal(t, tt.src, got.FieldSources[model.FieldBusinessDetails])
		})
	}
}

func TestAssignConfidence(t *testing.T) {
	t.Parallel()

	a := &Analysis{}
	tests := []struct {
		name      string
		primary   *Analysis
		secondary *Analysis
		wantConf  int
		wantLabel string
		wantSrc   model.ConfidenceSource
	}{
		{"both", a, a, 100, model.AISourceBoth, model.ConfidenceBoth},
		{"primary", a, nil, 50, model.AISourcePrimary, model.ConfidencePrimary},
		{"secondary", nil, a, 50, model.AISourceSecondary, model.ConfidenceSecondary},
		{"mock", nil, nil, 92, model.AISourceMock, model.ConfidenceMock},
	}

	svc := New(fixedRand(12))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var l model.Lead
			svc.assignConfidence(&l, tt.primary, tt.secondary)
			assert.Equal(t, tt.wantConf, l.AIConfidence)
			assert.Equal(t, tt.wantLabel, l.AISource)
			assert.Equal(t, tt.wantSrc, l.ConfidenceSource)
			assert.True(t, l.Verified)
		})
	}
}

func TestAssignConfidence_MockRange(t *testing.T) {
	t.Parallel()

	svc := New()
	for i := 0; i < 200; i++ {
		var l model.Lead
		svc.assignConfidence(&l, nil, nil)
		assert.GreaterOrEqual(t, l.AIConfidence, 80)
		assert.LessOrEqual(t, l.AIConfidence, 99)
	}
}
