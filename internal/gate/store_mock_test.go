// Mock of GrantStore in the layout mockgen emits. Running go generate in
// this package replaces it with generated output.

package gate

import (
	context "context"
	reflect "reflect"

	model "github.com/iliyamo/labquiz/internal/model"
	gomock "go.uber.org/mock/gomock"
)

// MockGrantStore is a mock of GrantStore interface.
type MockGrantStore struct {
	ctrl     *gomock.Controller
	recorder *MockGrantStoreMockRecorder
}

// MockGrantStoreMockRecorder is the mock recorder for MockGrantStore.
type MockGrantStoreMockRecorder struct {
	mock *MockGrantStore
}

// NewMockGrantStore creates a new mock instance.
func NewMockGrantStore(ctrl *gomock.Controller) *MockGrantStore {
	mock := &MockGrantStore{ctrl: ctrl}
	mock.recorder = &MockGrantStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGrantStore) EXPECT() *MockGrantStoreMockRecorder {
	return m.recorder
}

// AccessByName mocks base method.
func (m *MockGrantStore) AccessByName(arg0 context.Context, arg1 string) (model.Access, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AccessByName", arg0, arg1)
	ret0, _ := ret[0].(model.Access)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AccessByName indicates an expected call of AccessByName.
func (mr *MockGrantStoreMockRecorder) AccessByName(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AccessByName", reflect.TypeOf((*MockGrantStore)(nil).AccessByName), arg0, arg1)
}

// GrantFor mocks base method.
func (m *MockGrantStore) GrantFor(arg0 context.Context, arg1, arg2 uint64) (model.UserAccess, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GrantFor", arg0, arg1, arg2)
	ret0, _ := ret[0].(model.UserAccess)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GrantFor indicates an expected call of GrantFor.
func (mr *MockGrantStoreMockRecorder) GrantFor(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GrantFor", reflect.TypeOf((*MockGrantStore)(nil).GrantFor), arg0, arg1, arg2)
}
