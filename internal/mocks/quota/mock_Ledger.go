package quota

import (
	"context"

	quota "github.com/l0p7/fipegate/internal/gateway/quota"

	mock "github.com/stretchr/testify/mock"
)

// MockLedger is an autogenerated mock type for the Ledger type
type MockLedger struct {
	mock.Mock
}

type MockLedger_Expecter struct {
	mock *mock.Mock
}

func (_m *MockLedger) EXPECT() *MockLedger_Expecter {
	return &MockLedger_Expecter{mock: &_m.Mock}
}

// DailyLimit provides a mock function with no fields
func (_m *MockLedger) DailyLimit() int64 {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for DailyLimit")
	}

	var r0 int64
	if rf, ok := ret.Get(0).(func() int64); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0
}

// MockLedger_DailyLimit_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DailyLimit'
type MockLedger_DailyLimit_Call struct {
	*mock.Call
}

// DailyLimit is a helper method to define mock.On call
func (_e *MockLedger_Expecter) DailyLimit() *MockLedger_DailyLimit_Call {
	return &MockLedger_DailyLimit_Call{Call: _e.mock.On("DailyLimit")}
}

func (_c *MockLedger_DailyLimit_Call) Run(run func()) *MockLedger_DailyLimit_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockLedger_DailyLimit_Call) Return(_a0 int64) *MockLedger_DailyLimit_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockLedger_DailyLimit_Call) RunAndReturn(run func() int64) *MockLedger_DailyLimit_Call {
	_c.Call.Return(run)
	return _c
}

// Remaining provides a mock function with given fields: ctx
func (_m *MockLedger) Remaining(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Remaining")
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

// MockLedger_Remaining_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Remaining'
type MockLedger_Remaining_Call struct {
	*mock.Call
}

// Remaining is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockLedger_Expecter) Remaining(ctx interface{}) *MockLedger_Remaining_Call {
	return &MockLedger_Remaining_Call{Call: _e.mock.On("Remaining", ctx)}
}

func (_c *MockLedger_Remaining_Call) Run(run func(ctx context.Context)) *MockLedger_Remaining_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockLedger_Remaining_Call) Return(_a0 int64, _a1 error) *MockLedger_Remaining_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockLedger_Remaining_Call) RunAndReturn(run func(context.Context) (int64, error)) *MockLedger_Remaining_Call {
	_c.Call.Return(run)
	return _c
}

// SetDailyLimit provides a mock function with given fields: limit
func (_m *MockLedger) SetDailyLimit(limit int64) {
	_m.Called(limit)
}

// MockLedger_SetDailyLimit_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SetDailyLimit'
type MockLedger_SetDailyLimit_Call struct {
	*mock.Call
}

// SetDailyLimit is a helper method to define mock.On call
//   - limit int64
func (_e *MockLedger_Expecter) SetDailyLimit(limit interface{}) *MockLedger_SetDailyLimit_Call {
	return &MockLedger_SetDailyLimit_Call{Call: _e.mock.On("SetDailyLimit", limit)}
}

func (_c *MockLedger_SetDailyLimit_Call) Run(run func(limit int64)) *MockLedger_SetDailyLimit_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(int64))
	})
	return _c
}

func (_c *MockLedger_SetDailyLimit_Call) Return() *MockLedger_SetDailyLimit_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockLedger_SetDailyLimit_Call) RunAndReturn(run func(int64)) *MockLedger_SetDailyLimit_Call {
	_c.Run(run)
	return _c
}

// Today provides a mock function with no fields
func (_m *MockLedger) Today() quota.Day {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Today")
	}

	var r0 quota.Day
	if rf, ok := ret.Get(0).(func() quota.Day); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(quota.Day)
	}

	return r0
}

// MockLedger_Today_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Today'
type MockLedger_Today_Call struct {
	*mock.Call
}

// Today is a helper method to define mock.On call
func (_e *MockLedger_Expecter) Today() *MockLedger_Today_Call {
	return &MockLedger_Today_Call{Call: _e.mock.On("Today")}
}

func (_c *MockLedger_Today_Call) Run(run func()) *MockLedger_Today_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockLedger_Today_Call) Return(_a0 quota.Day) *MockLedger_Today_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockLedger_Today_Call) RunAndReturn(run func() quota.Day) *MockLedger_Today_Call {
	_c.Call.Return(run)
	return _c
}

// TryConsume provides a mock function with given fields: ctx
func (_m *MockLedger) TryConsume(ctx context.Context) (quota.Decision, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for TryConsume")
	}

	var r0 quota.Decision
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (quota.Decision, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) quota.Decision); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(quota.Decision)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockLedger_TryConsume_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'TryConsume'
type MockLedger_TryConsume_Call struct {
	*mock.Call
}

// TryConsume is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockLedger_Expecter) TryConsume(ctx interface{}) *MockLedger_TryConsume_Call {
	return &MockLedger_TryConsume_Call{Call: _e.mock.On("TryConsume", ctx)}
}

func (_c *MockLedger_TryConsume_Call) Run(run func(ctx context.Context)) *MockLedger_TryConsume_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockLedger_TryConsume_Call) Return(_a0 quota.Decision, _a1 error) *MockLedger_TryConsume_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockLedger_TryConsume_Call) RunAndReturn(run func(context.Context) (quota.Decision, error)) *MockLedger_TryConsume_Call {
	_c.Call.Return(run)
	return _c
}

// UsedToday provides a mock function with given fields: ctx
func (_m *MockLedger) UsedToday(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for UsedToday")
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

// MockLedger_UsedToday_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'UsedToday'
type MockLedger_UsedToday_Call struct {
	*mock.Call
}

// UsedToday is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockLedger_Expecter) UsedToday(ctx interface{}) *MockLedger_UsedToday_Call {
	return &MockLedger_UsedToday_Call{Call: _e.mock.On("UsedToday", ctx)}
}

func (_c *MockLedger_UsedToday_Call) Run(run func(ctx context.Context)) *MockLedger_UsedToday_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockLedger_UsedToday_Call) Return(_a0 int64, _a1 error) *MockLedger_UsedToday_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockLedger_UsedToday_Call) RunAndReturn(run func(context.Context) (int64, error)) *MockLedger_UsedToday_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockLedger creates a new instance of MockLedger. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockLedger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLedger {
	mock := &MockLedger{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
