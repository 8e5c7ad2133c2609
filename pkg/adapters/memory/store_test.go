package memory_test

import (
	"testing"

	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	contract "github.com/jfellner/bounceflow/pkg/ports/tests"
)

func TestStore_Contract(t *testing.T) {
	contract.ReportStoreContractTest(t, memory.NewStore())
}
