package core

// Default power-level tiers, matching the usual room convention.
const (
	DefaultAdminLevel     = 100
	DefaultModeratorLevel = 50
)

// Options carries the validated policy knobs shared by the decision
// components. Immutable after construction; safe for concurrent use.
type Options struct {
	// ServerName is the local homeserver. When set, takeover follow-ups
	// are only produced for local senders; remote unfreezes are admitted
	// and left to the sender's own server. Empty treats everyone as local.
	ServerName string
	// UnfreezeBlacklist lists server names whose users may never unfreeze.
	UnfreezeBlacklist []string
	// PromoteModerators enables auto-promotion when the last admin leaves.
	PromoteModerators bool
	// AdminLevel and ModeratorLevel are the privilege-tier cutoffs.
	// Zero values fall back to the defaults above.
	AdminLevel     int
	ModeratorLevel int
}

func (o Options) adminLevel() int {
	if o.AdminLevel > 0 {
		return o.AdminLevel
	}
	return DefaultAdminLevel
}

func (o Options) moderatorLevel() int {
	if o.ModeratorLevel > 0 {
		return o.ModeratorLevel
	}
	return DefaultModeratorLevel
}
