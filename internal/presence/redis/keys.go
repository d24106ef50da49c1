package redis

import (
	"fmt"

	"github.com/mcoot/rpserver-go/internal/model"
)

const keyPrefix = "rpserver"

// entryKey returns the key holding one character's presence entry
func entryKey(id model.CharacterID) string {
	return fmt.Sprintf("%s:online:%d", keyPrefix, id)
}

// onlineIndexKey returns the SET of character ids with an entry
func onlineIndexKey() string {
	return fmt.Sprintf("%s:idx:online", keyPrefix)
}
