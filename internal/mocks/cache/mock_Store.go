package cache

import (
	"context"
	"time"

	cache "github.com/l0p7/fipegate/internal/gateway/cache"

	mock "github.com/stretchr/testify/mock"
)

// MockStore is an autogenerated mock type for the Store type
type MockStore struct {
	mock.Mock
}

type MockStore_Expecter struct {
	mock *mock.Mock
}

func (_m *MockStore) EXPECT() *MockStore_Expecter {
	return &MockStore_Expecter{mock: &_m.Mock}
}

// ClearAll provides a mock function with given fields: ctx
func (_m *MockStore) ClearAll(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ClearAll")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (int64, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) int64); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockStore_ClearAll_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ClearAll'
type MockStore_ClearAll_Call struct {
	*mock.Call
}

// ClearAll is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockStore_Expecter) ClearAll(ctx interface{}) *MockStore_ClearAll_Call {
	return &MockStore_ClearAll_Call{Call: _e.mock.On("ClearAll", ctx)}
}

func (_c *MockStore_ClearAll_Call) Run(run func(ctx context.Context)) *MockStore_ClearAll_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockStore_ClearAll_Call) Return(_a0 int64, _a1 error) *MockStore_ClearAll_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockStore_ClearAll_Call) RunAndReturn(run func(context.Context) (int64, error)) *MockStore_ClearAll_Call {
	_c.Call.Return(run)
	return _c
}

// Close provides a mock function with given fields: ctx
func (_m *MockStore) Close(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockStore_Close_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Close'
type MockStore_Close_Call struct {
	*mock.Call
}

// Close is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockStore_Expecter) Close(ctx interface{}) *MockStore_Close_Call {
	return &MockStore_Close_Call{Call: _e.mock.On("Close", ctx)}
}

func (_c *MockStore_Close_Call) Run(run func(ctx context.Context)) *MockStore_Close_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockStore_Close_Call) Return(_a0 error) *MockStore_Close_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockStore_Close_Call) RunAndReturn(run func(context.Context) error) *MockStore_Close_Call {
	_c.Call.Return(run)
	return _c
}

// Get provides a mock function with given fields: ctx, key
func (_m *MockStore) Get(ctx context.Context, key cache.Key) (cache.Entry, bool, error) {
	ret := _m.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 cache.Entry
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, cache.Key) (cache.Entry, bool, error)); ok {
		return rf(ctx, key)
	}
	if rf, ok := ret.Get(0).(func(context.Context, cache.Key) cache.Entry); ok {
		r0 = rf(ctx, key)
	} else {
		r0 = ret.Get(0).(cache.Entry)
	}

	if rf, ok := ret.Get(1).(func(context.Context, cache.Key) bool); ok {
		r1 = rf(ctx, key)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, cache.Key) error); ok {
		r2 = rf(ctx, key)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// MockStore_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type MockStore_Get_Call struct {
	*mock.Call
}

// Get is a helper method to define mock.On call
//   - ctx context.Context
//   - key cache.Key
func (_e *MockStore_Expecter) Get(ctx interface{}, key interface{}) *MockStore_Get_Call {
	return &MockStore_Get_Call{Call: _e.mock.On("Get", ctx, key)}
}

func (_c *MockStore_Get_Call) Run(run func(ctx context.Context, key cache.Key)) *MockStore_Get_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(cache.Key))
	})
	return _c
}

func (_c *MockStore_Get_Call) Return(_a0 cache.Entry, _a1 bool, _a2 error) *MockStore_Get_Call {
	_c.Call.Return(_a0, _a1, _a2)
	return _c
}

func (_c *MockStore_Get_Call) RunAndReturn(run func(context.Context, cache.Key) (cache.Entry, bool, error)) *MockStore_Get_Call {
	_c.Call.Return(run)
	return _c
}

// Put provides a mock function with given fields: ctx, key, value, ttl
func (_m *MockStore) Put(ctx context.Context, key cache.Key, value []byte, ttl time.Duration) error {
	ret := _m.Called(ctx, key, value, ttl)

	if len(ret) == 0 {
		panic("no return value specified for Put")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, cache.Key, []byte, time.Duration) error); ok {
		r0 = rf(ctx, key, value, ttl)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockStore_Put_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Put'
type MockStore_Put_Call struct {
	*mock.Call
}

// Put is a helper method to define mock.On call
//   - ctx context.Context
//   - key cache.Key
//   - value []byte
//   - ttl time.Duration
func (_e *MockStore_Expecter) Put(ctx interface{}, key interface{}, value interface{}, ttl interface{}) *MockStore_Put_Call {
	return &MockStore_Put_Call{Call: _e.mock.On("Put", ctx, key, value, ttl)}
}

func (_c *MockStore_Put_Call) Run(run func(ctx context.Context, key cache.Key, value []byte, ttl time.Duration)) *MockStore_Put_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(cache.Key), args[2].([]byte), args[3].(time.Duration))
	})
	return _c
}

func (_c *MockStore_Put_Call) Return(_a0 error) *MockStore_Put_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockStore_Put_Call) RunAndReturn(run func(context.Context, cache.Key, []byte, time.Duration) error) *MockStore_Put_Call {
	_c.Call.Return(run)
	return _c
}

// Size provides a mock function with given fields: ctx
func (_m *MockStore) Size(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Size")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (int64, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) int64); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockStore_Size_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Size'
type MockStore_Size_Call struct {
	*mock.Call
}

// Size is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockStore_Expecter) Size(ctx interface{}) *MockStore_Size_Call {
	return &MockStore_Size_Call{Call: _e.mock.On("Size", ctx)}
}

func (_c *MockStore_Size_Call) Run(run func(ctx context.Context)) *MockStore_Size_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockStore_Size_Call) Return(_a0 int64, _a1 error) *MockStore_Size_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockStore_Size_Call) RunAndReturn(run func(context.Context) (int64, error)) *MockStore_Size_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockStore creates a new instance of MockStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	mock := &MockStore{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
