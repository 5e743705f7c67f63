package roles

import (
	"github.com/troupehq/troupe/internal"
)

// Qualified names of the stock roles.
const (
	NameRequestID = internal.DefaultRolePrefix + "RequestID"
	NameRecover   = internal.DefaultRolePrefix + "Recover"
	NameTimeout   = internal.DefaultRolePrefix + "Timeout"
	NameThrottle  = internal.DefaultRolePrefix + "Throttle"
)

// Register wires the stock roles, with default configuration, into reg
// under the "troupe.role." namespace. Call it once during application
// wiring, before troupe.New. Registration is explicit rather than an
// import side effect so that tests and multi-app processes can hold
// differently configured registries.
func Register(reg *internal.RoleRegistry) error {
	stock := map[string]internal.Role{
		NameRequestID: RequestID(),
		NameRecover:   Recover(),
		NameTimeout:   Timeout(DefaultTimeout),
		NameThrottle:  Throttle(DefaultThrottleLimit, DefaultThrottleWindow),
	}
	for name, role := range stock {
		if err := reg.Register(name, role); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(reg *internal.RoleRegistry) {
	if err := Register(reg); err != nil {
		panic(err)
	}
}
