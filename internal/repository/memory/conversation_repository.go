package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"legal-research-be/internal/entity"
)

// ConversationRepository keeps chat follow-up context in memory. Entries
// expire after an hour of inactivity; expired conversations simply start
// over on the next message.
type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conversation *entity.Conversation) {
	r.cache.Set(conversation.ID, conversation, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(conversationID string) (*entity.Conversation, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*entity.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}
