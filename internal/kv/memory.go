package kv

// Memory is an in-process Store. The zero value is not usable; use NewMemory.
type Memory struct {
	values map[string]string
	// Writes counts successful Set and Delete calls.
	Writes int
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.values[key] = value
	m.Writes++
	return nil
}

func (m *Memory) Delete(key string) error {
	delete(m.values, key)
	m.Writes++
	return nil
}

func (m *Memory) Path() string { return ":memory:" }

func (m *Memory) Close() error { return nil }
