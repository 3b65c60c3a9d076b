package mocks

// NatCall records one SetNat invocation.
type NatCall struct {
	Enable bool
	In     string
	Out    string
}

// MockNat is a mock implementation of the domain.NatController interface.
type MockNat struct {
	SetNatFunc func(enable bool, inInterface, outInterface string) bool

	Calls []NatCall
}

func (m *MockNat) SetNat(enable bool, inInterface, outInterface string) bool {
	m.Calls = append(m.Calls, NatCall{Enable: enable, In: inInterface, Out: outInterface})
	if m.SetNatFunc != nil {
		return m.SetNatFunc(enable, inInterface, outInterface)
	}
	return true
}
