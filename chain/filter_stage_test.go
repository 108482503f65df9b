package chain

import (
	"testing"

	"github.com/ljluestc/ape-dts/filter"
	"github.com/ljluestc/ape-dts/types"
)

func TestFilterStageDropsOnMismatch(t *testing.T) {
	engine, err := filter.New(filter.Config{DoSchemas: "app"})
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	stage := NewFilterStage(engine)
	if stage.Name() != "filter" {
		t.Fatalf("got name %q", stage.Name())
	}

	kept := types.NewDMLRecord(types.RowData{Schema: "app", Table: "orders", RowType: types.Insert})
	if _, ok := stage.Process(kept); !ok {
		t.Fatal("expected app.orders to be kept")
	}

	dropped := types.NewDMLRecord(types.RowData{Schema: "other", Table: "orders", RowType: types.Insert})
	if _, ok := stage.Process(dropped); ok {
		t.Fatal("expected other.orders to be dropped")
	}
}
