package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// RelationMapper is Op 5. Grounded on
// original_source/anchor/tracker/logic_relation_mapper.py.
type RelationMapper struct {
	repo    *repository.Repository
	gateway llm.Gateway
}

func NewRelationMapper(repo *repository.Repository, gateway llm.Gateway) *RelationMapper {
	return &RelationMapper{repo: repo, gateway: gateway}
}

type relationResult struct {
	Relations []struct {
		FromLogicID  int64  `json:"from_logic_id"`
		ToLogicID    int64  `json:"to_logic_id"`
		RelationType string `json:"relation_type"`
		Note         *string `json:"note"`
	} `json:"relations"`
}

// Run maps relations for every post whose logics all have summaries set
// but have no relations recorded yet, up to limit posts.
func (m *RelationMapper) Run(ctx context.Context, limit int) (int, error) {
	postIDs, err := m.repo.PostsWithUnmappedLogics(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list posts with unmapped logics: %w", err)
	}

	count := 0
	for _, postID := range postIDs {
		if err := m.mapOne(ctx, postID); err != nil {
			slog.Warn("pipeline: relation mapper failed", "post_id", postID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (m *RelationMapper) mapOne(ctx context.Context, postID int64) error {
	logics, err := m.repo.LogicsForPost(ctx, postID)
	if err != nil {
		return err
	}
	if len(logics) < 2 {
		return nil
	}

	validIDs := make(map[int64]bool, len(logics))
	var sb strings.Builder
	for _, l := range logics {
		if l.OneSentenceSummary == nil {
			return nil // not all logics assessed yet; wait for Op 2+3
		}
		validIDs[l.ID] = true
		fmt.Fprintf(&sb, "- id=%d: %s\n", l.ID, *l.OneSentenceSummary)
	}

	completion, err := m.gateway.Complete(ctx, prompt.LogicRelationMapperSystem, sb.String(), defaultMaxTokens)
	if err != nil {
		return err
	}
	if completion == nil {
		return nil
	}

	var parsed relationResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		return nil
	}

	for _, rel := range parsed.Relations {
		if rel.FromLogicID == rel.ToLogicID {
			continue
		}
		if !validIDs[rel.FromLogicID] || !validIDs[rel.ToLogicID] {
			continue
		}
		relType := models.RelationType(rel.RelationType)
		if !relType.Valid() {
			continue
		}
		if err := m.repo.InsertLogicRelation(ctx, rel.FromLogicID, rel.ToLogicID, relType, rel.Note); err != nil {
			slog.Warn("pipeline: insert logic relation failed", "from", rel.FromLogicID, "to", rel.ToLogicID, "error", err)
		}
	}
	return nil
}
