package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/priyankgupta/doi-monitor/internal/cache"
	"github.com/priyankgupta/doi-monitor/internal/domain"
	"github.com/priyankgupta/doi-monitor/internal/pipeline/doi"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// DOIService runs the reporting pipeline over ingested workbooks. Parsed
// tables and base tables are memoized by dataset identity (and window
// length), so repeating an interaction reuses the earlier computation.
type DOIService struct {
	memo        *cache.MemoStore
	results     cache.ResultCache
	defaultDays int
}

func NewDOIService(memo *cache.MemoStore, results cache.ResultCache, defaultDays int) *DOIService {
	if memo == nil {
		memo = cache.NewMemoStore()
	}
	if results == nil {
		results = cache.NewNoopResultCache()
	}
	if defaultDays < 1 {
		defaultDays = 7
	}
	return &DOIService{memo: memo, results: results, defaultDays: defaultDays}
}

// DefaultWindowDays is the window length used when a caller does not pick one.
func (s *DOIService) DefaultWindowDays() int { return s.defaultDays }

// Ingest reads an uploaded workbook, preprocesses both sheets and registers
// the dataset under the fingerprint of its bytes. Uploading the same file
// again returns the already parsed dataset.
func (s *DOIService) Ingest(r io.Reader) (*domain.DatasetInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	sum := sha1.Sum(data)
	id := hex.EncodeToString(sum[:])

	v, err := s.memo.Do(datasetKey(id), func() (interface{}, error) {
		raw, err := doi.ReadWorkbook(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return doi.Preprocess(raw)
	})
	if err != nil {
		return nil, err
	}
	tables := v.(*doi.Tables)

	log.Info().
		Str("dataset_id", id).
		Int("sales_records", len(tables.Sales)).
		Int("inventory_records", len(tables.Inventory)).
		Msg("workbook ingested")

	return datasetInfo(id, tables), nil
}

// Dataset returns the summary of an already ingested dataset.
func (s *DOIService) Dataset(id string) (*domain.DatasetInfo, error) {
	tables, err := s.tables(id)
	if err != nil {
		return nil, err
	}
	return datasetInfo(id, tables), nil
}

// Base returns the reconciled base table for the dataset over a trailing
// window of days. Zero days means the configured default.
func (s *DOIService) Base(id string, days int) (*domain.BaseTable, error) {
	if days == 0 {
		days = s.defaultDays
	}

	tables, err := s.tables(id)
	if err != nil {
		return nil, err
	}

	v, err := s.memo.Do(baseKey(id, days), func() (interface{}, error) {
		return doi.BuildBase(tables.Sales, tables.Inventory, days)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.BaseTable), nil
}

// Options lists the SKU descriptions and cities present in the dataset's
// base table, for populating filter choices.
func (s *DOIService) Options(id string, days int) (*domain.FilterOptions, error) {
	base, err := s.Base(id, days)
	if err != nil {
		return nil, err
	}

	skus := make(map[string]struct{})
	cityNames := make(map[string]struct{})
	for _, row := range base.Rows {
		if row.SKUDescription != "" {
			skus[row.SKUDescription] = struct{}{}
		}
		if row.City != "" {
			cityNames[row.City] = struct{}{}
		}
	}

	return &domain.FilterOptions{
		SKUs:   sortedKeys(skus),
		Cities: sortedKeys(cityNames),
	}, nil
}

// View computes the report for a selection against the dataset's base table.
// Resolved views are cached per (dataset, window, selection); the "nothing
// selected" view is cheap and never cached.
func (s *DOIService) View(ctx context.Context, id string, days int, sel domain.Selection) (*domain.Result, error) {
	base, err := s.Base(id, days)
	if err != nil {
		return nil, err
	}

	if sel.View() == domain.ViewNone {
		return doi.ApplyFilter(base, sel), nil
	}

	if result, ok, err := s.results.GetResult(ctx, id, base.WindowDays, sel); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("doi: cache get result failed")
	}

	result := doi.ApplyFilter(base, sel)

	if err := s.results.SetResult(ctx, id, base.WindowDays, sel, result); err != nil {
		log.Warn().Err(err).Msg("doi: cache set result failed")
	}

	return result, nil
}

func (s *DOIService) tables(id string) (*doi.Tables, error) {
	v, ok := s.memo.Get(datasetKey(id))
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return v.(*doi.Tables), nil
}

func datasetInfo(id string, tables *doi.Tables) *domain.DatasetInfo {
	return &domain.DatasetInfo{
		ID:               id,
		SalesRecords:     len(tables.Sales),
		InventoryRecords: len(tables.Inventory),
	}
}

func datasetKey(id string) string {
	return "dataset:" + id
}

func baseKey(id string, days int) string {
	return fmt.Sprintf("base:%s:%d", id, days)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
