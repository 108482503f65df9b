package router

import (
	"testing"

	"github.com/ljluestc/ape-dts/types"
)

func TestStaticRouterTableMap(t *testing.T) {
	r := NewBuilder().Table("src", "orders", "dst", "orders_v2").Build()
	schema, table := r.MapTable("src", "orders")
	if schema != "dst" || table != "orders_v2" {
		t.Fatalf("MapTable = %s.%s, want dst.orders_v2", schema, table)
	}
	schema, table = r.MapTable("src", "other")
	if schema != "src" || table != "other" {
		t.Fatalf("MapTable(unmapped) = %s.%s, want unchanged", schema, table)
	}
}

func TestStaticRouterTopicFallback(t *testing.T) {
	r := NewBuilder().
		Topic("app", "orders", "orders-topic").
		Topic("app", "*", "app-wildcard-topic").
		Topic("*", "*", "default-topic").
		Build()

	if topic, ok := r.TopicFor("app", "orders"); !ok || topic != "orders-topic" {
		t.Fatalf("exact match: got %q, %v", topic, ok)
	}
	if topic, ok := r.TopicFor("app", "users"); !ok || topic != "app-wildcard-topic" {
		t.Fatalf("schema wildcard: got %q, %v", topic, ok)
	}
	if topic, ok := r.TopicFor("other", "whatever"); !ok || topic != "default-topic" {
		t.Fatalf("global wildcard: got %q, %v", topic, ok)
	}
}

func TestStaticRouterColumnRename(t *testing.T) {
	r := NewBuilder().Column("app", "orders", "old_name", "new_name").Build()
	out := r.MapColumns("app", "orders", map[string]types.ColValue{
		"old_name": types.TextValue("x"),
		"other":    types.TextValue("y"),
	})
	if _, ok := out["old_name"]; ok {
		t.Fatal("expected old_name to be renamed away")
	}
	if v, ok := out["new_name"]; !ok || v.String() != "x" {
		t.Fatal("expected new_name to carry the renamed value")
	}
	if v, ok := out["other"]; !ok || v.String() != "y" {
		t.Fatal("expected unrelated column to pass through")
	}
}

func TestRouteDMLKeysColumnRoutingByOriginalIdentity(t *testing.T) {
	r := NewBuilder().
		Table("app", "orders", "app_mirror", "orders_v2").
		Column("app", "orders", "old_name", "new_name").
		Build()

	row := types.RowData{Schema: "app", Table: "orders", RowType: types.Insert, After: map[string]types.ColValue{
		"old_name": types.TextValue("x"),
	}}
	out := r.RouteDML(row)
	if out.Schema != "app_mirror" || out.Table != "orders_v2" {
		t.Fatalf("got %s.%s, want app_mirror.orders_v2", out.Schema, out.Table)
	}
	if _, ok := out.After["new_name"]; !ok {
		t.Fatal("expected column routed via the pre-route (app, orders) key even though schema/table changed")
	}
}

func TestReverseSwapsSchemaAndTableMaps(t *testing.T) {
	r := NewBuilder().
		Schema("src", "dst").
		Table("src", "orders", "dst", "orders_v2").
		Column("src", "orders", "old_name", "new_name").
		Build()

	rev := r.Reverse()

	if got := rev.MapSchema("dst"); got != "src" {
		t.Fatalf("reversed schema map: got %q, want src", got)
	}
	schema, table := rev.MapTable("dst", "orders_v2")
	if schema != "src" || table != "orders" {
		t.Fatalf("reversed table map: got %s.%s, want src.orders", schema, table)
	}

	out := rev.MapColumns("dst", "orders_v2", map[string]types.ColValue{
		"new_name": types.TextValue("x"),
	})
	if _, ok := out["old_name"]; !ok {
		t.Fatal("expected reversed col_map to be keyed by destination identity with renames inverted")
	}
}

func TestReverseDropsTopicMap(t *testing.T) {
	r := NewBuilder().Topic("app", "orders", "orders-topic").Build()
	rev := r.Reverse()
	if _, ok := rev.TopicFor("app", "orders"); ok {
		t.Fatal("expected topic_map not to survive Reverse()")
	}
}

func TestRoutingIdempotentOnDisjointKeys(t *testing.T) {
	r := NewBuilder().
		Table("app", "orders", "app_mirror", "orders_v2").
		Column("app", "orders", "old_name", "new_name").
		Build()

	row := types.RowData{Schema: "app", Table: "orders", RowType: types.Insert, After: map[string]types.ColValue{
		"old_name": types.TextValue("x"),
	}}
	once := r.RouteDML(row)
	twice := r.RouteDML(once)

	if once.Schema != twice.Schema || once.Table != twice.Table {
		t.Fatalf("routing not idempotent on disjoint keys: %s.%s vs %s.%s", once.Schema, once.Table, twice.Schema, twice.Table)
	}
	if len(once.After) != len(twice.After) {
		t.Fatalf("routing not idempotent on column set: %v vs %v", once.After, twice.After)
	}
	for k, v := range once.After {
		if tv, ok := twice.After[k]; !ok || tv.String() != v.String() {
			t.Fatalf("routing not idempotent on column %q: %v vs %v", k, v, tv)
		}
	}
}

func TestReverseRouteRoundTrip(t *testing.T) {
	r := NewBuilder().
		Schema("src", "dst").
		Table("src", "orders", "dst", "orders_v2").
		Column("src", "orders", "old_name", "new_name").
		Build()
	rev := r.Reverse()

	row := types.RowData{Schema: "src", Table: "orders", RowType: types.Insert, After: map[string]types.ColValue{
		"old_name": types.TextValue("x"),
	}}
	routed := r.RouteDML(row)
	restored := rev.RouteDML(routed)

	if restored.Schema != row.Schema || restored.Table != row.Table {
		t.Fatalf("reverse round trip: got %s.%s, want %s.%s", restored.Schema, restored.Table, row.Schema, row.Table)
	}
	if _, ok := restored.After["old_name"]; !ok {
		t.Fatal("reverse round trip: expected original column name restored")
	}
}
