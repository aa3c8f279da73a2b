package upstream

import (
	"context"

	"github.com/l0p7/fipegate/internal/fipe"

	mock "github.com/stretchr/testify/mock"
)

// MockClient is an autogenerated mock type for the Client type
type MockClient struct {
	mock.Mock
}

type MockClient_Expecter struct {
	mock *mock.Mock
}

func (_m *MockClient) EXPECT() *MockClient_Expecter {
	return &MockClient_Expecter{mock: &_m.Mock}
}

// FetchByCode provides a mock function with given fields: ctx, q
func (_m *MockClient) FetchByCode(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for FetchByCode")
	}

	var r0 fipe.VehicleInfo
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) (fipe.VehicleInfo, error)); ok {
		return rf(ctx, q)
	}
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) fipe.VehicleInfo); ok {
		r0 = rf(ctx, q)
	} else {
		r0 = ret.Get(0).(fipe.VehicleInfo)
	}

	if rf, ok := ret.Get(1).(func(context.Context, fipe.Query) error); ok {
		r1 = rf(ctx, q)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockClient_FetchByCode_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchByCode'
type MockClient_FetchByCode_Call struct {
	*mock.Call
}

// FetchByCode is a helper method to define mock.On call
//   - ctx context.Context
//   - q fipe.Query
func (_e *MockClient_Expecter) FetchByCode(ctx interface{}, q interface{}) *MockClient_FetchByCode_Call {
	return &MockClient_FetchByCode_Call{Call: _e.mock.On("FetchByCode", ctx, q)}
}

func (_c *MockClient_FetchByCode_Call) Run(run func(ctx context.Context, q fipe.Query)) *MockClient_FetchByCode_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(fipe.Query))
	})
	return _c
}

func (_c *MockClient_FetchByCode_Call) Return(_a0 fipe.VehicleInfo, _a1 error) *MockClient_FetchByCode_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FetchByCode_Call) RunAndReturn(run func(context.Context, fipe.Query) (fipe.VehicleInfo, error)) *MockClient_FetchByCode_Call {
	_c.Call.Return(run)
	return _c
}

// FetchBrands provides a mock function with given fields: ctx, q
func (_m *MockClient) FetchBrands(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for FetchBrands")
	}

	var r0 []fipe.NamedCode
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) ([]fipe.NamedCode, error)); ok {
		return rf(ctx, q)
	}
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) []fipe.NamedCode); ok {
		r0 = rf(ctx, q)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]fipe.NamedCode)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, fipe.Query) error); ok {
		r1 = rf(ctx, q)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockClient_FetchBrands_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchBrands'
type MockClient_FetchBrands_Call struct {
	*mock.Call
}

// FetchBrands is a helper method to define mock.On call
//   - ctx context.Context
//   - q fipe.Query
func (_e *MockClient_Expecter) FetchBrands(ctx interface{}, q interface{}) *MockClient_FetchBrands_Call {
	return &MockClient_FetchBrands_Call{Call: _e.mock.On("FetchBrands", ctx, q)}
}

func (_c *MockClient_FetchBrands_Call) Run(run func(ctx context.Context, q fipe.Query)) *MockClient_FetchBrands_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(fipe.Query))
	})
	return _c
}

func (_c *MockClient_FetchBrands_Call) Return(_a0 []fipe.NamedCode, _a1 error) *MockClient_FetchBrands_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FetchBrands_Call) RunAndReturn(run func(context.Context, fipe.Query) ([]fipe.NamedCode, error)) *MockClient_FetchBrands_Call {
	_c.Call.Return(run)
	return _c
}

// FetchModels provides a mock function with given fields: ctx, q
func (_m *MockClient) FetchModels(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for FetchModels")
	}

	var r0 []fipe.NamedCode
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) ([]fipe.NamedCode, error)); ok {
		return rf(ctx, q)
	}
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) []fipe.NamedCode); ok {
		r0 = rf(ctx, q)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]fipe.NamedCode)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, fipe.Query) error); ok {
		r1 = rf(ctx, q)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockClient_FetchModels_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchModels'
type MockClient_FetchModels_Call struct {
	*mock.Call
}

// FetchModels is a helper method to define mock.On call
//   - ctx context.Context
//   - q fipe.Query
func (_e *MockClient_Expecter) FetchModels(ctx interface{}, q interface{}) *MockClient_FetchModels_Call {
	return &MockClient_FetchModels_Call{Call: _e.mock.On("FetchModels", ctx, q)}
}

func (_c *MockClient_FetchModels_Call) Run(run func(ctx context.Context, q fipe.Query)) *MockClient_FetchModels_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(fipe.Query))
	})
	return _c
}

func (_c *MockClient_FetchModels_Call) Return(_a0 []fipe.NamedCode, _a1 error) *MockClient_FetchModels_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FetchModels_Call) RunAndReturn(run func(context.Context, fipe.Query) ([]fipe.NamedCode, error)) *MockClient_FetchModels_Call {
	_c.Call.Return(run)
	return _c
}

// FetchReferences provides a mock function with given fields: ctx
func (_m *MockClient) FetchReferences(ctx context.Context) ([]fipe.Reference, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for FetchReferences")
	}

	var r0 []fipe.Reference
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]fipe.Reference, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []fipe.Reference); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]fipe.Reference)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockClient_FetchReferences_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchReferences'
type MockClient_FetchReferences_Call struct {
	*mock.Call
}

// FetchReferences is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockClient_Expecter) FetchReferences(ctx interface{}) *MockClient_FetchReferences_Call {
	return &MockClient_FetchReferences_Call{Call: _e.mock.On("FetchReferences", ctx)}
}

func (_c *MockClient_FetchReferences_Call) Run(run func(ctx context.Context)) *MockClient_FetchReferences_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockClient_FetchReferences_Call) Return(_a0 []fipe.Reference, _a1 error) *MockClient_FetchReferences_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FetchReferences_Call) RunAndReturn(run func(context.Context) ([]fipe.Reference, error)) *MockClient_FetchReferences_Call {
	_c.Call.Return(run)
	return _c
}

// FetchVehicleInfo provides a mock function with given fields: ctx, q
func (_m *MockClient) FetchVehicleInfo(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for FetchVehicleInfo")
	}

	var r0 fipe.VehicleInfo
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) (fipe.VehicleInfo, error)); ok {
		return rf(ctx, q)
	}
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) fipe.VehicleInfo); ok {
		r0 = rf(ctx, q)
	} else {
		r0 = ret.Get(0).(fipe.VehicleInfo)
	}

	if rf, ok := ret.Get(1).(func(context.Context, fipe.Query) error); ok {
		r1 = rf(ctx, q)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockClient_FetchVehicleInfo_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchVehicleInfo'
type MockClient_FetchVehicleInfo_Call struct {
	*mock.Call
}

// FetchVehicleInfo is a helper method to define mock.On call
//   - ctx context.Context
//   - q fipe.Query
func (_e *MockClient_Expecter) FetchVehicleInfo(ctx interface{}, q interface{}) *MockClient_FetchVehicleInfo_Call {
	return &MockClient_FetchVehicleInfo_Call{Call: _e.mock.On("FetchVehicleInfo", ctx, q)}
}

func (_c *MockClient_FetchVehicleInfo_Call) Run(run func(ctx context.Context, q fipe.Query)) *MockClient_FetchVehicleInfo_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(fipe.Query))
	})
	return _c
}

func (_c *MockClient_FetchVehicleInfo_Call) Return(_a0 fipe.VehicleInfo, _a1 error) *MockClient_FetchVehicleInfo_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FetchVehicleInfo_Call) RunAndReturn(run func(context.Context, fipe.Query) (fipe.VehicleInfo, error)) *MockClient_FetchVehicleInfo_Call {
	_c.Call.Return(run)
	return _c
}

// FetchYears provides a mock function with given fields: ctx, q
func (_m *MockClient) FetchYears(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for FetchYears")
	}

	var r0 []fipe.NamedCode
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) ([]fipe.NamedCode, error)); ok {
		return rf(ctx, q)
	}
	if rf, ok := ret.Get(0).(func(context.Context, fipe.Query) []fipe.NamedCode); ok {
		r0 = rf(ctx, q)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]fipe.NamedCode)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, fipe.Query) error); ok {
		r1 = rf(ctx, q)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockClient_FetchYears_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchYears'
type MockClient_FetchYears_Call struct {
	*mock.Call
}

// FetchYears is a helper method to define mock.On call
//   - ctx context.Context
//   - q fipe.Query
func (_e *MockClient_Expecter) FetchYears(ctx interface{}, q interface{}) *MockClient_FetchYears_Call {
	return &MockClient_FetchYears_Call{Call: _e.mock.On("FetchYears", ctx, q)}
}

func (_c *MockClient_FetchYears_Call) Run(run func(ctx context.Context, q fipe.Query)) *MockClient_FetchYears_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(fipe.Query))
	})
	return _c
}

func (_c *MockClient_FetchYears_Call) Return(_a0 []fipe.NamedCode, _a1 error) *MockClient_FetchYears_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FetchYears_Call) RunAndReturn(run func(context.Context, fipe.Query) ([]fipe.NamedCode, error)) *MockClient_FetchYears_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockClient creates a new instance of MockClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
