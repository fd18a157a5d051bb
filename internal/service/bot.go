package service

import (
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

type BotService interface {
	Choose() entity.Choice
}

type botService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewBotService - seed 0 draws from an unseeded source, any other seed repeats the same sequence.
func NewBotService(seed uint64) BotService {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &botService{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint: gosec // not a security boundary
	}
}

func (that *botService) Choose() entity.Choice {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.Choices[that.rnd.IntN(len(entity.Choices))]
}
