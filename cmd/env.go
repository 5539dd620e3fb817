package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/catalog"
	"github.com/agrifin/cropadvisor/internal/engine"
	"github.com/agrifin/cropadvisor/internal/model"
	"github.com/agrifin/cropadvisor/internal/predictor"
	"github.com/agrifin/cropadvisor/internal/store"
	"github.com/agrifin/cropadvisor/pkg/mandi"
	"github.com/agrifin/cropadvisor/pkg/yieldmodel"
)

// advisorEnv holds the loaded static tables, clients, store, and engine
// shared by the serve/recommend/batch commands.
type advisorEnv struct {
	Crops    []model.CropRecord
	Rainfall *catalog.RainfallTable
	Mandi    mandi.Client
	Store    store.Store
	Engine   *engine.Engine
}

// Close releases resources held by the environment.
func (e *advisorEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// mandiSource adapts the mandi client to the engine's PriceSource.
type mandiSource struct {
	client mandi.Client
}

func (s mandiSource) FetchQuotes(ctx context.Context) ([]model.PriceQuote, error) {
	records, err := s.client.FetchPrices(ctx)
	if err != nil {
		return nil, err
	}
	quotes := make([]model.PriceQuote, len(records))
	for i, r := range records {
		quotes[i] = model.PriceQuote{Commodity: r.Commodity, ModalPrice: r.ModalPrice}
	}
	return quotes, nil
}

// initAdvisor loads the static tables, opens the run store, builds the
// clients, and assembles the engine. Startup failures here are fatal:
// the engine is non-functional without its catalog and model.
// Callers should defer env.Close().
func initAdvisor(ctx context.Context) (*advisorEnv, error) {
	if cfg.Mandi.APIKey == "" {
		return nil, eris.New("CROPADVISOR_MANDI_API_KEY is not set")
	}

	crops, err := catalog.Load(cfg.Catalog.CropMasterPath)
	if err != nil {
		return nil, err
	}

	rainfall, err := catalog.LoadRainfallTable(cfg.Catalog.RainfallTablePath)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	mandiClient := mandi.NewClient(cfg.Mandi.APIKey,
		mandi.WithBaseURL(cfg.Mandi.BaseURL),
		mandi.WithResourceID(cfg.Mandi.ResourceID),
		mandi.WithState(cfg.Mandi.State),
		mandi.WithLimit(cfg.Mandi.Limit),
		mandi.WithTimeout(cfg.Mandi.Timeout),
	)

	var pred predictor.Predictor = yieldmodel.NewClient(cfg.Model.Endpoint,
		yieldmodel.WithTimeout(cfg.Model.Timeout),
	)

	zap.L().Info("advisor initialized",
		zap.Int("crops", len(crops)),
		zap.Int("districts", rainfall.Districts()),
		zap.String("mandi_state", cfg.Mandi.State),
		zap.String("model_endpoint", cfg.Model.Endpoint),
	)

	return &advisorEnv{
		Crops:    crops,
		Rainfall: rainfall,
		Mandi:    mandiClient,
		Store:    st,
		Engine:   engine.New(crops, rainfall, mandiSource{client: mandiClient}, pred),
	}, nil
}
