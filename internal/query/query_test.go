package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

type testDialect struct{ numbered bool }

func (d testDialect) Name() string { return "test" }

func (d testDialect) Placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d testDialect) Quote(ident string) string { return `"` + ident + `"` }

func TestSelect_Build(t *testing.T) {
	e := Aliased("resource_data", "e")
	u := Aliased("jhi_user", "registerUser")

	base := func() *Select {
		return From(e).
			Columns(
				Column{Table: e, Name: "id", Alias: "e_id"},
				Column{Table: e, Name: "register_user_id", Alias: "e_register_user_id"},
				Column{Table: u, Name: "id", Alias: "registerUser_id"},
			).
			LeftOuterJoin(u, "register_user_id", "id")
	}

	tests := []struct {
		name     string
		sel      *Select
		dialect  testDialect
		wantSQL  string
		wantArgs []any
	}{
		{
			name: "join without filter",
			sel:  base(),
			wantSQL: `SELECT "e".id AS "e_id", "e".register_user_id AS "e_register_user_id", "registerUser".id AS "registerUser_id" ` +
				`FROM resource_data "e" LEFT OUTER JOIN jhi_user "registerUser" ON "e".register_user_id = "registerUser".id`,
		},
		{
			name: "equality filter",
			sel:  base().Where(Eq(e.Column("id"), int64(4))),
			wantSQL: `SELECT "e".id AS "e_id", "e".register_user_id AS "e_register_user_id", "registerUser".id AS "registerUser_id" ` +
				`FROM resource_data "e" LEFT OUTER JOIN jhi_user "registerUser" ON "e".register_user_id = "registerUser".id WHERE "e".id = ?`,
			wantArgs: []any{int64(4)},
		},
		{
			name: "filter and page together",
			sel: base().
				Where(And(IsNull(e.Column("register_user_id")), Eq(e.Column("id"), int64(2)))).
				Page(&types.Pageable{Page: 1, Size: 10, Sort: []types.Order{{Column: "id", Desc: true}}}),
			dialect: testDialect{numbered: true},
			wantSQL: `SELECT "e".id AS "e_id", "e".register_user_id AS "e_register_user_id", "registerUser".id AS "registerUser_id" ` +
				`FROM resource_data "e" LEFT OUTER JOIN jhi_user "registerUser" ON "e".register_user_id = "registerUser".id ` +
				`WHERE ("e".register_user_id IS NULL) AND ("e".id = $1) ORDER BY "e".id DESC LIMIT 10 OFFSET 10`,
			wantArgs: []any{int64(2)},
		},
		{
			name:    "first page omits offset",
			sel:     From(e).Columns(Column{Table: e, Name: "id", Alias: "e_id"}).Page(&types.Pageable{Size: 5}),
			wantSQL: `SELECT "e".id AS "e_id" FROM resource_data "e" LIMIT 5`,
		},
		{
			name:     "raw exists probe",
			sel:      From(e).Raw("1").Where(Eq(e.Column("id"), int64(9))).Limit(1),
			dialect:  testDialect{numbered: true},
			wantSQL:  `SELECT 1 FROM resource_data "e" WHERE "e".id = $1 LIMIT 1`,
			wantArgs: []any{int64(9)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.sel.Build(tt.dialect)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestAnd(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, And(nil, nil))

	c := IsNull(Aliased("resource", "e").Column("client_id"))
	assert.Equal(t, c, And(nil, c))
}

func TestTable_Quoting(t *testing.T) {
	d := testDialect{}

	bare := Table{Name: "client"}
	assert.Equal(t, "client.id", bare.Column("id").render(d))
	assert.Equal(t, "client", bare.from(d))

	role := Aliased("jhi_user", "user")
	assert.Equal(t, `"user".login`, role.Column("login").render(d))
	assert.Equal(t, `jhi_user "user"`, role.from(d))
}
