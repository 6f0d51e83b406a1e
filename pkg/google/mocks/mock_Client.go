// Package mocks provides test doubles for the google client.
package mocks

import (
	"context"

	google "github.com/sells-group/lead-cli/pkg/google"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// TextSearch provides a mock function with given fields: ctx, req
func (_m *MockClient) TextSearch(ctx context.Context, req google.TextSearchRequest) (*google.TextSearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for TextSearch")
	}

	var r0 *google.TextSearchResponse
	if rf, ok := ret.Get(0).(func(context.Context, google.TextSearchRequest) (*google.TextSearchResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*google.TextSearchResponse)
	}

	return r0, ret.Error(1)
}

// Details provides a mock function with given fields: ctx, placeID
func (_m *MockClient) Details(ctx context.Context, placeID string) (*google.PlaceDetails, error) {
	ret := _m.Called(ctx, placeID)

	if len(ret) == 0 {
		panic("no return value specified for Details")
	}

	var r0 *google.PlaceDetails
	if rf, ok := ret.Get(0).(func(context.Context, string) (*google.PlaceDetails, error)); ok {
		return rf(ctx, placeID)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*google.PlaceDetails)
	}

	return r0, ret.Error(1)
}

// FindPlace provides a mock function with given fields: ctx, input, inputType
func (_m *MockClient) FindPlace(ctx context.Context, input string, inputType google.InputType) ([]google.Candidate, error) {
	ret := _m.Called(ctx, input, inputType)

	if len(ret) == 0 {
		panic("no return value specified for FindPlace")
	}

	var r0 []google.Candidate
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]google.Candidate)
	}

	return r0, ret.Error(1)
}

// ReverseGeocode provides a mock function with given fields: ctx, lat, lng
func (_m *MockClient) ReverseGeocode(ctx context.Context, lat float64, lng float64) (*google.GeocodeResult, error) {
	ret := _m.Called(ctx, lat, lng)

	if len(ret) == 0 {
		panic("no return value specified for ReverseGeocode")
	}

	var r0 *google.GeocodeResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*google.GeocodeResult)
	}

	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
