package router

import (
	"testing"

	"github.com/ljluestc/ape-dts/types"
)

func TestNewStaticRouterParsesAllMaps(t *testing.T) {
	r, err := NewStaticRouter(RawConfig{
		Dialect:   MySQL,
		SchemaMap: "src:dst",
		TableMap:  "src.orders:dst.orders_v2",
		TopicMap:  "*.*:default-topic,src.orders:orders-topic",
		ColumnMap: `[{"db":"src","tb":"orders","col_map":{"old_name":"new_name"}}]`,
	})
	if err != nil {
		t.Fatalf("NewStaticRouter: %v", err)
	}
	if schema, table := r.MapTable("src", "orders"); schema != "dst" || table != "orders_v2" {
		t.Fatalf("table map: got %s.%s", schema, table)
	}
	if topic, ok := r.TopicFor("src", "orders"); !ok || topic != "orders-topic" {
		t.Fatalf("topic map: got %q, %v", topic, ok)
	}
	if _, ok := r.colMap[schemaTable{"src", "orders"}]["old_name"]; !ok {
		t.Fatal("expected column_map entry to be parsed")
	}
}

func TestNewStaticRouterBacktickDialect(t *testing.T) {
	r, err := NewStaticRouter(RawConfig{
		Dialect:   MySQL,
		TableMap:  "`src_db,2'`.`src_tb,2'`:dst_db_2.dst_tb_2",
	})
	if err != nil {
		t.Fatalf("NewStaticRouter: %v", err)
	}
	schema, table := r.MapTable("src_db,2'", "src_tb,2'")
	if schema != "dst_db_2" || table != "dst_tb_2" {
		t.Fatalf("got %s.%s, want dst_db_2.dst_tb_2", schema, table)
	}
}

func TestNewStaticRouterRejectsBadArity(t *testing.T) {
	_, err := NewStaticRouter(RawConfig{Dialect: MySQL, TableMap: "a.b.c"})
	if err == nil {
		t.Fatal("expected arity error for malformed table_map")
	}
}

func TestNewStaticRouterRequiresWildcardTopicDefault(t *testing.T) {
	_, err := NewStaticRouter(RawConfig{Dialect: MySQL, TopicMap: "db1.t1:T1"})
	if err == nil {
		t.Fatal("expected error for topic_map missing the mandatory *.* entry")
	}
}

func TestNewStaticRouterAcceptsWildcardTopicDefault(t *testing.T) {
	r, err := NewStaticRouter(RawConfig{Dialect: MySQL, TopicMap: "*.*:T0,db1.*:T1,db1.t1:T2"})
	if err != nil {
		t.Fatalf("NewStaticRouter: %v", err)
	}
	cases := []struct{ schema, table, want string }{
		{"db1", "t1", "T2"},
		{"db1", "t2", "T1"},
		{"db2", "t1", "T0"},
	}
	for _, c := range cases {
		got, ok := r.TopicFor(c.schema, c.table)
		if !ok || got != c.want {
			t.Errorf("TopicFor(%s,%s) = %q, %v, want %q", c.schema, c.table, got, ok, c.want)
		}
	}
}

func TestRouterPrefersContentRouteOverStatic(t *testing.T) {
	r, err := New(RawConfig{
		Dialect:       MySQL,
		TableMap:      "app.orders:default_db.orders",
		ContentRoutes: `[{"db":"app","tb":"orders","routes":[{"condition":{"column":"region","operator":"eq","value":"eu"},"target_db":"eu_db","target_tb":"orders_eu"}]}]`,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	row := types.RowData{
		Schema: "app", Table: "orders", RowType: types.Insert,
		After: map[string]types.ColValue{"region": types.TextValue("eu")},
	}
	out := r.RouteDML(row)
	if out.Schema != "eu_db" || out.Table != "orders_eu" {
		t.Fatalf("got %s.%s, want eu_db.orders_eu", out.Schema, out.Table)
	}
}
