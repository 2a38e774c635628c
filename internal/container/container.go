package container

import (
	"database/sql"

	"library/internal/catalog"
	"library/internal/circulation"
	"library/internal/patrons"
	"library/internal/repository"

	"go.uber.org/zap"
)

type Container struct {
	Repository         *repository.Repository
	CirculationService *circulation.Service
	CirculationHandler *circulation.CirculationHandler
	CatalogHandler     *catalog.CatalogHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	assetRepo := catalog.NewAssetRepository(repo)
	patronRepo := patrons.NewPatronRepository(repo)
	checkoutRepo := circulation.NewCheckoutRepository(repo)
	holdRepo := circulation.NewHoldRepository(repo)

	circulationService := circulation.NewService(
		repo,
		checkoutRepo,
		holdRepo,
		assetRepo,
		patronRepo,
		circulation.SystemClock(),
		log,
	)
	circulationHandler := circulation.NewCirculationHandler(circulationService)
	catalogHandler := catalog.NewCatalogHandler(assetRepo, circulationService)

	return &Container{
		Repository:         repo,
		CirculationService: circulationService,
		CirculationHandler: circulationHandler,
		CatalogHandler:     catalogHandler,
	}
}
