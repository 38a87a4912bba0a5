package es

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 1000

type ContentRepo interface {
	SearchContent(ctx context.Context, q *ContentSearchQuery) ([]uint64, int64, error)
	IndexContent(ctx context.Context, doc *ContentES, version int64) error
	DeleteContent(ctx context.Context, id uint64) error
	UpdateCreatorDetail(ctx context.Context, creatorID uint64, name, avatar string) error
}

type ContentRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewContentRepo(client *elasticsearch.TypedClient) ContentRepo {
	return &ContentRepoImpl{client: client}
}

// SearchContent 返回命中的内容 id 与总数，排序与 SQL 信息流一致
func (s *ContentRepoImpl) SearchContent(ctx context.Context, q *ContentSearchQuery) ([]uint64, int64, error) {
	if q.From >= MaxSearchDepth {
		return []uint64{}, 0, nil
	}
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	nowStr := now.UTC().Format(time.RFC3339)

	boolQuery := &types.BoolQuery{
		Must: []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  q.Keyword,
				Fields: []string{"title^2", "body", "topics"},
			},
		}},
		Filter: []types.Query{
			{Term: map[string]types.TermQuery{"status": {Value: "published"}}},
			{Term: map[string]types.TermQuery{"visibility": {Value: "public"}}},
			{Term: map[string]types.TermQuery{"is_approved": {Value: true}}},
		},
		MustNot: []types.Query{{
			Range: map[string]types.RangeQuery{
				"expires_at": types.DateRangeQuery{Lte: &nowStr},
			},
		}},
	}

	resp, err := s.client.Search().
		Index(ContentIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{"created_at": {Order: &sortorder.Desc}}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"quality_score": {Order: &sortorder.Desc}}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"id": {Order: &sortorder.Desc}}},
		).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		From(q.From).
		Size(q.Size).
		Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}
	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc struct {
			ID uint64 `json:"id"`
		}
		if err = json.Unmarshal(hit.Source_, &doc); err != nil || doc.ID == 0 {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, total, nil
}

// IndexContent 外部版本号防止乱序覆盖
func (s *ContentRepoImpl) IndexContent(ctx context.Context, doc *ContentES, version int64) error {
	docID := strconv.FormatUint(doc.ID, 10)

	_, err := s.client.Index(ContentIndex).
		Id(docID).
		Document(doc).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *ContentRepoImpl) DeleteContent(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(ContentIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

// UpdateCreatorDetail 作者资料变更后批量刷新冗余字段
func (s *ContentRepoImpl) UpdateCreatorDetail(ctx context.Context, creatorID uint64, name, avatar string) error {
	nameJSON, _ := json.Marshal(name)
	avatarJSON, _ := json.Marshal(avatar)

	params := map[string]json.RawMessage{
		"new_name":   json.RawMessage(nameJSON),
		"new_avatar": json.RawMessage(avatarJSON),
	}
	scriptSource := "ctx._source.creator_name = params.new_name; ctx._source.creator_avatar = params.new_avatar;"

	resp, err := s.client.UpdateByQuery(ContentIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"creator_id": {Value: creatorID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("content index: update creator detail failed: %w", err)
	}
	if len(resp.Failures) != 0 {
		return fmt.Errorf("content index: update creator detail has %d failures", len(resp.Failures))
	}
	return nil
}
