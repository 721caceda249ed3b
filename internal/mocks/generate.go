package mocks

//go:generate mockery --name Fetcher --srcpkg github.com/idp-analytics/identity-reports/internal/loader --output ./loader --outpkg loadermocks --with-expecter
//go:generate mockery --name Store --srcpkg github.com/idp-analytics/identity-reports/internal/archive --output ./archive --outpkg archivemocks --with-expecter
