package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/matchday --output domain/matchday --outpkg matchdaymock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/standing --output domain/standing --outpkg standingmock --filename provider_mock.go
