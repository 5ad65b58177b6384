package platform

import "github.com/stretchr/testify/mock"

import "time"

// MockPlatform is a mock of the Platform interface for use in tests.
type MockPlatform struct {
	mock.Mock
}

// PutFile provides a mock function with given fields: localPath, stagePath
func (_m *MockPlatform) PutFile(localPath string, stagePath string) error {
	ret := _m.Called(localPath, stagePath)

	var r0 error
	if rf, ok := ret.Get(0).(func(string, string) error); ok {
		r0 = rf(localPath, stagePath)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// CreateJob provides a mock function with given fields: name, computePool, specification, eaiNames
func (_m *MockPlatform) CreateJob(name string, computePool string, specification []byte, eaiNames []string) error {
	ret := _m.Called(name, computePool, specification, eaiNames)

	var r0 error
	if rf, ok := ret.Get(0).(func(string, string, []byte, []string) error); ok {
		r0 = rf(name, computePool, specification, eaiNames)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// AwaitReady provides a mock function with given fields: name, timeout
func (_m *MockPlatform) AwaitReady(name string, timeout time.Duration) error {
	ret := _m.Called(name, timeout)

	var r0 error
	if rf, ok := ret.Get(0).(func(string, time.Duration) error); ok {
		r0 = rf(name, timeout)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// StreamingEndpoint provides a mock function with given fields: name
func (_m *MockPlatform) StreamingEndpoint(name string) (string, error) {
	ret := _m.Called(name)

	var r0 string
	if rf, ok := ret.Get(0).(func(string) string); ok {
		r0 = rf(name)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DropJob provides a mock function with given fields: name
func (_m *MockPlatform) DropJob(name string) error {
	ret := _m.Called(name)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(name)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// TagSession provides a mock function with given fields: tag
func (_m *MockPlatform) TagSession(tag string) error {
	ret := _m.Called(tag)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(tag)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// UntagSession provides a mock function with given fields:
func (_m *MockPlatform) UntagSession() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields:
func (_m *MockPlatform) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
