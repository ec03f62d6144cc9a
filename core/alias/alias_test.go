package alias

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	s := NewStore()
	s.Set("ll", "ls -l")
	s.Set("g", "git")
	s.Set("ll", "ls -la")

	v, ok := s.Lookup("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls -la", v)

	assert.True(t, s.Unset("g"))
	assert.False(t, s.Unset("g"))

	_, ok = s.Lookup("g")
	assert.False(t, ok)
}

func ExampleStore_List() {
	s := NewStore()
	s.Set("ll", "ls -l")
	s.Set("la", "ls -a")

	for _, a := range s.List() {
		fmt.Printf("%s=%s\n", a.Name, a.Value)
	}

	// Output:
	// la=ls -a
	// ll=ls -l
}
