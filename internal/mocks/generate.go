package mocks

//go:generate go run go.uber.org/mock/mockgen -destination=mock_catalog_repository.go -package=mocks feedcore/internal/data CatalogRepository
//go:generate go run go.uber.org/mock/mockgen -destination=mock_activity_log_repository.go -package=mocks feedcore/internal/data ActivityLogRepository
//go:generate go run go.uber.org/mock/mockgen -destination=mock_flow_view_repository.go -package=mocks feedcore/internal/data FlowViewRepository
