package crm

import (
	"fmt"
	"net/url"
)

// query builds the bracketed parameter encoding the CRM expects:
// select[i]=FIELD, filter[>=FIELD]=value, filter[FIELD][i]=value for set
// membership.
type query struct {
	values    url.Values
	selectIdx int
}

func newQuery() *query {
	return &query{values: url.Values{}}
}

// selectAll requests every standard field plus the given custom field keys.
func (q *query) selectAll(customFields ...string) *query {
	q.addSelect("*")
	for _, field := range customFields {
		q.addSelect(field)
	}
	return q
}

func (q *query) addSelect(field string) *query {
	q.values.Set(fmt.Sprintf("select[%d]", q.selectIdx), field)
	q.selectIdx++
	return q
}

// filter adds a comparison predicate; op is the CRM prefix operator
// (">=", "<", "" for equality).
func (q *query) filter(op, field, value string) *query {
	q.values.Set(fmt.Sprintf("filter[%s%s]", op, field), value)
	return q
}

// filterIn adds a set-membership predicate encoded as repeated array keys.
func (q *query) filterIn(field string, values []string) *query {
	for i, value := range values {
		q.values.Set(fmt.Sprintf("filter[%s][%d]", field, i), value)
	}
	return q
}

func (q *query) order(field, direction string) *query {
	q.values.Set(fmt.Sprintf("order[%s]", field), direction)
	return q
}
