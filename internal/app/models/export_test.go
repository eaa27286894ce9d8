package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnIndex(t *testing.T) {
	table := &ExportTable{Columns: []string{"Name", "Avatar", "Email"}}

	assert.Equal(t, 0, table.ColumnIndex("Name"))
	assert.Equal(t, 1, table.ColumnIndex(string(InfoAvatar)))
	assert.Equal(t, -1, table.ColumnIndex("Student Number"))
	assert.Equal(t, -1, (&ExportTable{}).ColumnIndex("Name"))
}
