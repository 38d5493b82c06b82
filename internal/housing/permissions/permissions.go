package permissions

const (
	Define          = "houseregions_define"
	Delete          = "houseregions_delete"
	Share           = "houseregions_share"
	ShareWithGroups = "houseregions_sharewithgroups"
	NoLimits        = "houseregions_nolimits"
	HousingMaster   = "houseregions_housingmaster"
	Configure       = "houseregions_cfg"
)

// All lists every capability in display order.
var All = []string{Define, Delete, Share, ShareWithGroups, NoLimits, HousingMaster, Configure}

// Checker answers capability questions for a group.
type Checker interface {
	HasCapability(group, perm string) bool
}

// Set is a group capability set. The "*" entry grants everything.
type Set map[string]bool

func (s Set) Has(perm string) bool {
	if s == nil {
		return false
	}
	return s["*"] || s[perm]
}

// Commands lists the /house subcommands a group may run, in help order.
func Commands(c Checker, group string) []string {
	out := []string{"info", "scan", "summary"}
	if c.HasCapability(group, Define) {
		out = append(out, "define", "resize")
	}
	if c.HasCapability(group, Delete) {
		out = append(out, "delete")
	}
	if c.HasCapability(group, Share) {
		out = append(out, "setowner", "share", "unshare")
	}
	if c.HasCapability(group, ShareWithGroups) {
		out = append(out, "sharegroup", "unsharegroup")
	}
	if c.HasCapability(group, Configure) {
		out = append(out, "reloadconfig")
	}
	return out
}
