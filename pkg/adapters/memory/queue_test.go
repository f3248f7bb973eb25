package memory_test

import (
	"testing"

	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/ports/tests"
)

func TestQueue_Contract(t *testing.T) {
	tests.RunDescriptorQueueContract(t, memory.NewQueue())
}
