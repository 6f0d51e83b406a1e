package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/pkg/pdl"
)

func TestFindOwner(t *testing.T) {
	p := &mockPDL{}
	p.On("SearchPeople", mock.Anything, mock.MatchedBy(func(r pdl.SearchRequest) bool {
		return r.Size == 10 && len(r.Sort) == 1 && r.Sort[0]["job_start_date"] == "desc"
	})).Return(&pdl.SearchResponse{Data: []pdl.Person{
		{
			FullName:    "jane doe",
			JobTitle:    "Owner",
			Emails:      []pdl.Email{{Address: "old@acme.io", Current: false}, {Address: "jane@acme.io", Current: true}},
			MobilePhone: "+1 512 555 0101",
			LinkedInURL: "linkedin.com/in/janedoe",
		},
		{FullName: "John McDonald", JobTitle: "Managing Director", PhoneNumbers: []string{"+1 512 555 0199"}},
	}}, nil).Once()

	svc := New(WithPDL(p))
	res, err := svc.FindOwner(context.Background(), OwnerQuery{CompanyName: "Acme", City: "Austin"})

	require.NoError(t, err)
	assert.Equal(t, 90, res.Confidence)
	assert.Equal(t, OwnerCandidate{
		Name:     "Jane Doe",
		Title:    "Owner",
		Email:    "jane@acme.io",
		Phone:    "+1 512 555 0101",
		LinkedIn: "linkedin.com/in/janedoe",
	}, res.Primary)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "John McDonald", res.Candidates[1].Name)
	assert.Equal(t, "+1 512 555 0199", res.Candidates[1].Phone)
	p.AssertExpectations(t)
}

func TestFindOwner_Errors(t *testing.T) {
	_, err := New().FindOwner(context.Background(), OwnerQuery{CompanyName: "  "})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)

	_, err = New().FindOwner(context.Background(), OwnerQuery{CompanyName: "Acme"})
	assert.ErrorIs(t, err, model.ErrMissingCredentials)

	empty := &mockPDL{}
	empty.On("SearchPeople", mock.Anything, mock.Anything).Return(&pdl.SearchResponse{}, nil).Once()
	_, err = New(WithPDL(empty)).FindOwner(context.Background(), OwnerQuery{CompanyName: "Acme"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	failing := &mockPDL{}
	failing.On("SearchPeople", mock.Anything, mock.Anything).Return(nil, errors.New("pdl down")).Once()
	_, err = New(WithPDL(failing)).FindOwner(context.Background(), OwnerQuery{CompanyName: "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrich: find owner")
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestOwner_StepSwallowsErrors(t *testing.T) {
	failing := &mockPDL{}
	failing.On("SearchPeople", mock.Anything, mock.Anything).Return(nil, errors.New("pdl down")).Once()

	assert.Nil(t, New(WithPDL(failing)).Owner(context.Background(), model.Lead{CompanyName: "Acme"}))
	assert.Nil(t, New().Owner(context.Background(), model.Lead{CompanyName: "Acme"}))
}

func TestOwnerSearchQuery(t *testing.T) {
	t.Parallel()

	q := OwnerSearchQuery(OwnerQuery{CompanyName: " Acme Pizza ", State: "TX", Country: "N/A"})

	must := q["bool"].(map[string]any)["must"].([]any)
	require.Len(t, must, 3)
	assert.Equal(t, map[string]any{"match": map[string]any{"job_company_name": "acme pizza"}}, must[0])

	titles := must[1].(map[string]any)["bool"].(map[string]any)
	assert.Equal(t, 1, titles["minimum_should_match"])
	assert.Len(t, titles["should"], len(ownerTitles))

	assert.Equal(t, map[string]any{"match": map[string]any{"location_region": "tx"}}, must[2])
}

func TestTitleName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe", titleName("jane   doe"))
	assert.Equal(t, "John McDonald", titleName("John McDonald"))
	assert.Equal(t, "", titleName(""))
}
