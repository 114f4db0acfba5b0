package university

import (
	"sort"

	"github.com/gyanhq/campus/core"
)

// University is one tenant of the platform. All data is partitioned by Code.
type University struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Registry is the static set of known tenant codes, built from configuration
// and injected into every service that needs tenant validation.
type Registry struct {
	byCode map[string]University
}

func NewRegistry(conf *core.Config) *Registry {
	reg := &Registry{byCode: make(map[string]University, len(conf.Universities))}
	for _, u := range conf.Universities {
		reg.byCode[u.Code] = University{Code: u.Code, Name: u.Name}
	}
	return reg
}

func (reg *Registry) Get(code string) (University, bool) {
	u, ok := reg.byCode[code]
	return u, ok
}

func (reg *Registry) IsValid(code string) bool {
	_, ok := reg.byCode[code]
	return ok
}

func (reg *Registry) All() []University {
	all := make([]University, 0, len(reg.byCode))
	for _, u := range reg.byCode {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}
