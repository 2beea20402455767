package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GuestIDGenerator mints opaque user ids handed to the chat-session API for
// anonymous callers. Injected so tests can supply deterministic ids.
type GuestIDGenerator interface {
	NewGuestID() string
}

// RandomGuestIDs produces ids of the form guest_<unix-millis>_<random>.
type RandomGuestIDs struct {
	now func() time.Time
}

func NewRandomGuestIDs() *RandomGuestIDs {
	return &RandomGuestIDs{now: time.Now}
}

func (g *RandomGuestIDs) NewGuestID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("guest_%d_%s", g.now().UTC().UnixMilli(), suffix)
}

var _ GuestIDGenerator = (*RandomGuestIDs)(nil)
