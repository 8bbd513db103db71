package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"historical-qa-api/internal/application/analysis"
	"historical-qa-api/internal/domain/entity"
	"historical-qa-api/internal/domain/repository"
)

const (
	episodesPerKeyword  = 4
	episodeCharLimit    = 1500
	eventsPerKeyword    = 2
	episodesPerEntity   = 4
	relationshipLimit   = 10
	timeframeEventLimit = 5
	maxKeywords         = 5
)

var queryYearPattern = regexp.MustCompile(`\b(1[89]\d{2})\b`)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// GraphStore 基于 PostgreSQL 的手工检索通道
// 按查询类别选择结构化检索策略，人物档案始终以权威证据返回
type GraphStore struct {
	profiles      repository.ProfileRepository
	episodes      repository.EpisodeRepository
	events        repository.EventRepository
	relationships repository.RelationshipRepository
}

// NewGraphStore 创建手工检索通道
func NewGraphStore(client *Client) *GraphStore {
	return &GraphStore{
		profiles:      NewProfileRepository(client),
		episodes:      NewEpisodeRepository(client),
		events:        NewEventRepository(client),
		relationships: NewRelationshipRepository(client),
	}
}

// Retrieve 按类别策略检索证据
func (s *GraphStore) Retrieve(ctx context.Context, query string, category analysis.Category, entities []string) ([]analysis.EvidenceItem, error) {
	ctx, span := tracer.Start(ctx, "postgres.GraphStore.Retrieve")
	defer span.End()

	var items []analysis.EvidenceItem

	// 识别出的人物无论类别一律先取权威档案
	profiles, err := s.profiles.GetByNames(ctx, entities)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, p := range profiles {
		items = append(items, analysis.EvidenceItem{
			Text:       p.Profile,
			SourceKind: analysis.SourceCharacterProfile,
			Entity:     p.CharacterName,
		})
	}

	switch category {
	case analysis.CategoryCharacterAnalysis:
		items, err = s.appendCharacterEvidence(ctx, items, entities)
	case analysis.CategoryRelationships:
		items, err = s.appendRelationshipEvidence(ctx, items, entities)
	case analysis.CategoryTemporal:
		items, err = s.appendTemporalEvidence(ctx, items, query)
	default:
		items, err = s.appendKeywordEvidence(ctx, items, query)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return items, nil
}

// appendCharacterEvidence 人物分析：出场片段加直接关系
func (s *GraphStore) appendCharacterEvidence(ctx context.Context, items []analysis.EvidenceItem, entities []string) ([]analysis.EvidenceItem, error) {
	for _, name := range entities {
		episodes, err := s.episodes.SearchByCharacter(ctx, name, episodesPerEntity)
		if err != nil {
			return nil, err
		}
		items = appendEpisodes(items, episodes, name)

		rels, err := s.relationships.GetByCharacter(ctx, name, relationshipLimit)
		if err != nil {
			return nil, err
		}
		items = appendRelationships(items, rels)

		events, err := s.events.SearchByParticipant(ctx, name, eventsPerKeyword)
		if err != nil {
			return nil, err
		}
		items = appendEvents(items, events)
	}
	return items, nil
}

// appendRelationshipEvidence 关系分析：限深图遍历加双方出场片段
func (s *GraphStore) appendRelationshipEvidence(ctx context.Context, items []analysis.EvidenceItem, entities []string) ([]analysis.EvidenceItem, error) {
	for _, name := range entities {
		rels, err := s.relationships.GetNeighborhood(ctx, name, 2, relationshipLimit)
		if err != nil {
			return nil, err
		}
		items = appendRelationships(items, rels)

		episodes, err := s.episodes.SearchByCharacter(ctx, name, eventsPerKeyword)
		if err != nil {
			return nil, err
		}
		items = appendEpisodes(items, episodes, name)
	}
	return items, nil
}

// appendTemporalEvidence 时间线分析：优先按年月取事件，再补关键词片段
func (s *GraphStore) appendTemporalEvidence(ctx context.Context, items []analysis.EvidenceItem, query string) ([]analysis.EvidenceItem, error) {
	q := strings.ToLower(query)

	year := 0
	if m := queryYearPattern.FindString(q); m != "" {
		year, _ = strconv.Atoi(m)
	}
	month := 0
	for name, num := range monthNumbers {
		if strings.Contains(q, name) {
			month = num
			break
		}
	}

	if year > 0 {
		events, err := s.events.SearchByTimeframe(ctx, year, month, timeframeEventLimit)
		if err != nil {
			return nil, err
		}
		items = appendEvents(items, events)
	}

	return s.appendKeywordEvidence(ctx, items, query)
}

// appendKeywordEvidence 通用策略：扩展关键词后逐词检索片段与事件
func (s *GraphStore) appendKeywordEvidence(ctx context.Context, items []analysis.EvidenceItem, query string) ([]analysis.EvidenceItem, error) {
	keywords := analysis.ExpandKeywords(query)
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	for _, kw := range keywords {
		episodes, err := s.episodes.SearchByKeyword(ctx, kw, episodesPerKeyword)
		if err != nil {
			return nil, err
		}
		items = appendEpisodes(items, episodes, "")

		events, err := s.events.SearchByKeyword(ctx, kw, eventsPerKeyword)
		if err != nil {
			return nil, err
		}
		items = appendEvents(items, events)
	}
	return items, nil
}

func appendEpisodes(items []analysis.EvidenceItem, episodes []*entity.Episode, entityName string) []analysis.EvidenceItem {
	for _, ep := range episodes {
		text := ep.Content
		if len(text) > episodeCharLimit {
			// 不切开多字节字符
			cut := episodeCharLimit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		if ep.Title != "" {
			text = ep.Title + ": " + text
		}
		items = append(items, analysis.EvidenceItem{
			Text:           text,
			SourceKind:     analysis.SourceEpisode,
			SourceDocument: ep.SourceBook,
			Entity:         entityName,
		})
	}
	return items
}

func appendEvents(items []analysis.EvidenceItem, events []*entity.HistoricalEvent) []analysis.EvidenceItem {
	for _, ev := range events {
		text := ev.EventName + ": " + ev.Description
		if ev.NarrativeFunction != "" {
			text += " (" + ev.NarrativeFunction + ")"
		}
		items = append(items, analysis.EvidenceItem{
			Text:           text,
			SourceKind:     analysis.SourceEvent,
			SourceDocument: ev.SourceBook,
		})
	}
	return items
}

func appendRelationships(items []analysis.EvidenceItem, rels []*entity.Relationship) []analysis.EvidenceItem {
	for _, rel := range rels {
		text := fmt.Sprintf("%s -[%s]-> %s", rel.FromCharacter, rel.RelationType, rel.ToCharacter)
		if rel.Description != "" {
			text += ": " + rel.Description
		}
		items = append(items, analysis.EvidenceItem{
			Text:           text,
			SourceKind:     analysis.SourceRelationship,
			SourceDocument: rel.SourceBook,
		})
	}
	return items
}
