package main

import (
	"academyhub/internal/model"
	"academyhub/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog_IsValid(t *testing.T) {
	for _, q := range defaultQuestions() {
		assert.NoError(t, service.ValidateQuestion(&q), q.Text)
	}
	for _, r := range defaultRules() {
		assert.NoError(t, service.ValidateRule(&r), r.Title)
	}
}

func TestDefaultCatalog_CoversEveryPillar(t *testing.T) {
	scored := map[model.Pillar]bool{}
	facts := 0
	for _, q := range defaultQuestions() {
		if q.IsRequired() {
			scored[q.Section] = true
		}
		if q.EffectiveRole() == model.RoleFactClientCount {
			facts++
		}
	}
	for _, p := range model.AllPillars {
		assert.True(t, scored[p], "pillar %s has no scored question", p)
	}
	assert.Equal(t, 1, facts)
}
