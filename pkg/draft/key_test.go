package draft_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

func TestKeyRoundTrip(t *testing.T) {
	k := draft.NewKey(model.EntityTypeAccount, "temp_1000_x1")
	gt.Equal(t, k.String(), "playground_account_temp_1000_x1")

	parsed, ok := draft.ParseKey(k.String())
	gt.True(t, ok)
	gt.Equal(t, parsed, k)
}

func TestParseKeyRejectsForeignKeys(t *testing.T) {
	for _, s := range []string{
		"",
		"auth_credentials",
		"playground",
		"playground_",
		"playground_account",
		"playground_account_",
		"playground_lead_temp_1",
		"playgroundx_account_temp_1",
	} {
		_, ok := draft.ParseKey(s)
		gt.False(t, ok)
	}
}
