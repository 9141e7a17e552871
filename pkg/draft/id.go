package draft

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// idGenerator allocates temp_{millis}_{suffix} ids. Millis never repeat
// within one generator even if the clock stalls or goes backwards.
type idGenerator struct {
	mu     sync.Mutex
	now    func() time.Time
	suffix func() string
	last   int64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{
		now:    time.Now,
		suffix: randomSuffix,
	}
}

func (g *idGenerator) next() model.EntityID {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixMilli()
	if millis <= g.last {
		millis = g.last + 1
	}
	g.last = millis

	return model.EntityID(model.TempIDPrefix + strconv.FormatInt(millis, 10) + "_" + g.suffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
