// Package mocks provides gomock implementations of the repository ports in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockTeamRepository(ctrl)
//	repo.EXPECT().IsLeader(gomock.Any(), "u-1").Return(true, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=custom_template_repository_mock.go github.com/dockhand/dockhand-ui/internal/core CustomTemplateRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=team_repository_mock.go github.com/dockhand/dockhand-ui/internal/core TeamRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=settings_repository_mock.go github.com/dockhand/dockhand-ui/internal/core SettingsRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/dockhand/dockhand-ui/internal/core CacheRepository
