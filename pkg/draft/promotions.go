package draft

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// promotionsKey lives in the partition but never parses as a draft key
const promotionsKey = PartitionTag + "__promotions"

type promotions struct {
	UserID string      `json:"user_id"`
	IDs    model.IDMap `json:"ids"`
}

// RecordPromotions stores the temp to stable id pairs of drafts that already
// exist on the backend of userID, replacing any earlier record. The record is
// removed by ClearAllPlayground.
func (s *Store) RecordPromotions(ctx context.Context, userID string, ids model.IDMap) bool {
	raw, err := json.Marshal(promotions{UserID: userID, IDs: ids})
	if err != nil {
		logging.From(ctx).Warn("failed to encode promotions", "error", err)
		return false
	}
	if err := s.kv.Set(ctx, promotionsKey, raw); err != nil {
		logging.From(ctx).Warn("failed to record promotions", "error", goerr.Wrap(err, "kv rejected promotions"), "user_id", userID)
		return false
	}
	return true
}

// Promotions returns the pairs recorded for userID. Pairs recorded for another
// user are ignored.
func (s *Store) Promotions(ctx context.Context, userID string) model.IDMap {
	out := model.IDMap{}
	raw, found, err := s.kv.Get(ctx, promotionsKey)
	if err != nil {
		logging.From(ctx).Warn("failed to read promotions", "error", err)
		return out
	}
	if !found {
		return out
	}

	var p promotions
	if err := json.Unmarshal(raw, &p); err != nil {
		logging.From(ctx).Warn("skip corrupted promotions", "error", err)
		return out
	}
	if p.UserID != userID {
		return out
	}
	for temp, stable := range p.IDs {
		if temp.IsTemp() && stable != "" {
			out[temp] = stable
		}
	}
	return out
}
