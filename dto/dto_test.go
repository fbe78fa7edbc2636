package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	var req CreateSprintRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"S","project_id":1,"start_date":"2026-05-01","end_date":"2026-05-15T09:00:00Z"}`), &req))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), req.StartDate.Value())
	assert.Equal(t, time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC), req.EndDate.Value())

	var empty ProjectRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"P","due_date":null}`), &empty))
	assert.Nil(t, empty.DueDate.Ptr())
	assert.True(t, empty.StartDate.Value().IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"May 1st"}`), &req))
}

func TestEnumValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(&AdvanceTaskRequest{Status: "In Review", Hours: 2}))
	assert.Error(t, binding.Validator.ValidateStruct(&AdvanceTaskRequest{Status: "Blocked"}))
	assert.Error(t, binding.Validator.ValidateStruct(&AdvanceTaskRequest{Status: "Done", Hours: 25}))

	assert.NoError(t, binding.Validator.ValidateStruct(&CreateRiskRequest{Name: "R", Probability: "High", Impact: "Low", ProjectID: 1}))
	assert.Error(t, binding.Validator.ValidateStruct(&CreateRiskRequest{Name: "R", Probability: "Severe", Impact: "Low", ProjectID: 1}))

	assert.NoError(t, binding.Validator.ValidateStruct(&SignupRequest{Username: "a", Email: "a@example.com", Password: "secret"}))
	assert.Error(t, binding.Validator.ValidateStruct(&UpdateRoleRequest{Role: "Owner"}))
}
