package utils

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, ok := ParseID(id.String())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "abc", "12345", uuid.Nil.String(), "65f1c0ffee0000000000beef"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%tolkien%", ContainsPattern("tolkien"))
	assert.Equal(t, `%100\%\_sure\\%`, ContainsPattern(`100%_sure\`))
}

func TestContainsRegex(t *testing.T) {
	re := regexp.MustCompile(ContainsRegex("c++ (2nd"))
	assert.True(t, re.MatchString("Intro to C++ (2nd ed.)"))
	assert.False(t, re.MatchString("c (2nd"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("The Hobbit", "hOBB"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Dune", "dunes"))
}

func TestJoinClauses(t *testing.T) {
	assert.Equal(t, "a = $1 AND b = $2", JoinWithAnd([]string{"a = $1", "b = $2"}))
	assert.Equal(t, "title ILIKE $1 OR author ILIKE $1", JoinWithOr([]string{"title ILIKE $1", "author ILIKE $1"}))
	assert.Equal(t, "x", JoinWithOr([]string{"x"}))
}
