package data

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// resumeModelType is the polymorphic model_type discriminator the views
// table uses for resume rows, grounded on data_service.py::_load_videos.
const resumeModelType = `App\Interacpedia\Resumes\Resume`

// CatalogRepository is the read-only relational source CatalogSnapshot loads
// from. Grounded on data_service.py::load_all_data's fixed load order:
// Users -> Items -> Interactions -> Connections -> Flows.
type CatalogRepository interface {
	LoadCreators() ([]Creator, error)
	LoadItems(recencyWindowDays int, blacklisted func(videoURL string) bool) ([]ItemRecord, error)
	LoadItemEngagement(itemIDs []uint) (map[uint]ItemEngagementAggregate, error)
	LoadInteractions() ([]InteractionRow, error)
	LoadConnections() ([]Connection, error)
	LoadFlows(recencyWindowDays int, blacklisted func(videoURL string) bool) ([]FlowRecord, error)
}

type postgresCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

func (r *postgresCatalogRepository) LoadCreators() ([]Creator, error) {
	var creators []Creator
	if err := r.db.Find(&creators).Error; err != nil {
		return nil, fmt.Errorf("load creators: %w", err)
	}
	return creators, nil
}

// LoadItems applies spec.md §4.1's load-time filters: not deleted,
// status = sent/published, video URL present and not blacklisted, name and
// description are not the literal test placeholders, created within the
// recency window.
func (r *postgresCatalogRepository) LoadItems(recencyWindowDays int, blacklisted func(string) bool) ([]ItemRecord, error) {
	cutoff := time.Now().AddDate(0, 0, -recencyWindowDays)

	var rows []ItemRecord
	err := r.db.
		Where("status IN ?", []string{"sent", "published"}).
		Where("video_url IS NOT NULL AND video_url <> ''").
		Where("LOWER(name) NOT IN ?", []string{"prueba", "test"}).
		Where("LOWER(description) NOT IN ?", []string{"prueba", "test"}).
		Where("created_at >= ?", cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	filtered := rows[:0]
	for _, row := range rows {
		if blacklisted != nil && blacklisted(row.VideoURL) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered, nil
}

// LoadItemEngagement computes the per-item left-join aggregates: average
// rating (clamped to <=5, positive values only), rating/match/like/exhibited
// counts and actual view totals.
func (r *postgresCatalogRepository) LoadItemEngagement(itemIDs []uint) (map[uint]ItemEngagementAggregate, error) {
	result := make(map[uint]ItemEngagementAggregate, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	type ratingRow struct {
		ItemID uint
		Avg    float64
		Count  int64
	}
	var ratingRows []ratingRow
	err := r.db.Table("resume_ratings").
		Select("resume_id as item_id, AVG(LEAST(rating, 5)) as avg, COUNT(*) as count").
		Where("resume_id IN ? AND rating > 0", itemIDs).
		Group("resume_id").
		Scan(&ratingRows).Error
	if err != nil {
		return nil, fmt.Errorf("load rating aggregates: %w", err)
	}

	type countRow struct {
		ItemID uint
		Count  int64
	}
	matchCounts := map[uint]int64{}
	var matchRows []countRow
	if err := r.db.Table("resume_matches").
		Select("resume_id as item_id, COUNT(*) as count").
		Where("resume_id IN ? AND status = ?", itemIDs, "accepted").
		Group("resume_id").Scan(&matchRows).Error; err != nil {
		return nil, fmt.Errorf("load match aggregates: %w", err)
	}
	for _, row := range matchRows {
		matchCounts[row.ItemID] = row.Count
	}

	likeCounts := map[uint]int64{}
	var likeRows []countRow
	if err := r.db.Table("resume_saves").
		Select("resume_id as item_id, COUNT(*) as count").
		Where("resume_id IN ?", itemIDs).
		Group("resume_id").Scan(&likeRows).Error; err != nil {
		return nil, fmt.Errorf("load like aggregates: %w", err)
	}
	for _, row := range likeRows {
		likeCounts[row.ItemID] = row.Count
	}

	exhibitedCounts := map[uint]int64{}
	var exhibitedRows []countRow
	if err := r.db.Table("resumes_exhibited").
		Select("resume_id as item_id, COUNT(*) as count").
		Where("resume_id IN ?", itemIDs).
		Group("resume_id").Scan(&exhibitedRows).Error; err != nil {
		return nil, fmt.Errorf("load exhibited aggregates: %w", err)
	}
	for _, row := range exhibitedRows {
		exhibitedCounts[row.ItemID] = row.Count
	}

	viewCounts := map[uint]int64{}
	var viewRows []countRow
	if err := r.db.Table("views").
		Select("model_id as item_id, COUNT(*) as count").
		Where("model_id IN ? AND model_type = ?", itemIDs, resumeModelType).
		Group("model_id").Scan(&viewRows).Error; err != nil {
		return nil, fmt.Errorf("load view aggregates: %w", err)
	}
	for _, row := range viewRows {
		viewCounts[row.ItemID] = row.Count
	}

	for _, row := range ratingRows {
		agg := result[row.ItemID]
		agg.ItemID = row.ItemID
		agg.AvgRating = row.Avg
		agg.RatingCount = row.Count
		result[row.ItemID] = agg
	}
	for id, count := range matchCounts {
		agg := result[id]
		agg.ItemID = id
		agg.MatchCount = count
		result[id] = agg
	}
	for id, count := range likeCounts {
		agg := result[id]
		agg.ItemID = id
		agg.LikeCount = count
		result[id] = agg
	}
	for id, count := range exhibitedCounts {
		agg := result[id]
		agg.ItemID = id
		agg.ExhibitedCount = count
		result[id] = agg
	}
	for id, count := range viewCounts {
		agg := result[id]
		agg.ItemID = id
		agg.ActualViews = count
		result[id] = agg
	}

	return result, nil
}

// LoadInteractions returns the union of explicit ratings/saves/matches as
// interaction rows. The implicit-view synthesis fallback (when this set is
// empty) is performed by the catalog loader, not here, since it depends on
// the already-loaded item view counts.
func (r *postgresCatalogRepository) LoadInteractions() ([]InteractionRow, error) {
	var rows []InteractionRow

	var ratings []UserItemRating
	if err := r.db.Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("load rating interactions: %w", err)
	}
	for _, rt := range ratings {
		rows = append(rows, InteractionRow{
			UserID: rt.UserID, ItemID: rt.ItemID, Rating: rt.Rating,
			Kind: InteractionKindRating, CreatedAt: rt.CreatedAt,
		})
	}

	var saves []UserItemSave
	if err := r.db.Find(&saves).Error; err != nil {
		return nil, fmt.Errorf("load save interactions: %w", err)
	}
	for _, sv := range saves {
		rows = append(rows, InteractionRow{
			UserID: sv.UserID, ItemID: sv.ItemID, Rating: 4.0,
			Kind: InteractionKindSave, CreatedAt: sv.CreatedAt,
		})
	}

	var matches []UserItemMatch
	if err := r.db.Where("status = ?", "accepted").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("load match interactions: %w", err)
	}
	for _, m := range matches {
		rows = append(rows, InteractionRow{
			UserID: m.UserID, ItemID: m.ItemID, Rating: 4.5,
			Kind: InteractionKindMatch, CreatedAt: m.CreatedAt,
		})
	}

	return rows, nil
}

func (r *postgresCatalogRepository) LoadConnections() ([]Connection, error) {
	var connections []Connection
	if err := r.db.Where("status = ?", "accepted").Find(&connections).Error; err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	return connections, nil
}

// LoadFlows applies the same recency/blacklist filtering as LoadItems and
// deduplicates by video URL, keeping only the most recently created flow
// per URL: rows are fetched ordered by created_at desc and the first row
// seen for each URL is kept, the in-memory equivalent of ROW_NUMBER
// partitioned by url.
func (r *postgresCatalogRepository) LoadFlows(recencyWindowDays int, blacklisted func(string) bool) ([]FlowRecord, error) {
	cutoff := time.Now().AddDate(0, 0, -recencyWindowDays)

	var rows []FlowRecord
	err := r.db.
		Where("video_url IS NOT NULL AND video_url <> ''").
		Where("created_at >= ?", cutoff).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load flows: %w", err)
	}

	seen := make(map[string]bool, len(rows))
	deduped := rows[:0]
	for _, row := range rows {
		if blacklisted != nil && blacklisted(row.VideoURL) {
			continue
		}
		if seen[row.VideoURL] {
			continue
		}
		seen[row.VideoURL] = true
		deduped = append(deduped, row)
	}
	return deduped, nil
}
