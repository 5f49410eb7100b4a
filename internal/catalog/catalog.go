// Package catalog holds the plans a company can subscribe to. The catalog is
// built once at startup and never mutated, so it is safe to share between
// requests without locking.
package catalog

const DefaultCurrency = "USD"

type Feature struct {
	Description string
}

type Plan struct {
	Id       string
	Name     string
	Price    float64
	Currency string
	Features []Feature
}

type Catalog struct {
	plans []Plan
	index map[string]int
}

// New copies plans into a read-only catalog, preserving their order. Plans
// without a currency get DefaultCurrency. When ids repeat, the first wins.
func New(plans []Plan) Catalog {
	c := Catalog{
		plans: make([]Plan, 0, len(plans)),
		index: make(map[string]int, len(plans)),
	}

	for _, plan := range plans {
		if _, exists := c.index[plan.Id]; exists {
			continue
		}

		if plan.Currency == "" {
			plan.Currency = DefaultCurrency
		}
		plan.Features = append([]Feature(nil), plan.Features...)

		c.index[plan.Id] = len(c.plans)
		c.plans = append(c.plans, plan)
	}

	return c
}

// Plans returns the catalog in insertion order. The slice is a copy.
func (c Catalog) Plans() []Plan {
	plans := make([]Plan, len(c.plans))
	copy(plans, c.plans)
	return plans
}

// Get looks a plan up by id. An unknown id is reported with ok == false.
func (c Catalog) Get(id string) (Plan, bool) {
	i, ok := c.index[id]
	if !ok {
		return Plan{}, false
	}
	return c.plans[i], true
}

func (c Catalog) Len() int {
	return len(c.plans)
}
