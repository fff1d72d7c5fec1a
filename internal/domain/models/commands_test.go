package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liancar/yard/internal/domain/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		want     models.CommandType
		args     []string
		operator bool
	}{
		{in: "/status ABC1D23", want: models.CommandStatus, args: []string{"abc1d23"}},
		{in: "Placa abc 1234", want: models.CommandStatus, args: []string{"abc", "1234"}},
		{in: "painel", want: models.CommandBoard},
		{in: "  QUADRO ", want: models.CommandBoard},
		{in: "fechamento", want: models.CommandSummary},
		{in: "Avançar XYZ7890", want: models.CommandAdvance, args: []string{"xyz7890"}, operator: true},
		{in: "menu", want: models.CommandHelp},
		{in: "bom dia", want: models.CommandUnknown, args: []string{"dia"}},
		{in: "", want: models.CommandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmd := models.ParseCommand(tt.in)
			assert.Equal(t, tt.want, cmd.Type)
			assert.Equal(t, tt.args, cmd.Args)
			assert.Equal(t, tt.in, cmd.Raw)
			assert.Equal(t, tt.operator, cmd.RequiresOperator())
		})
	}
}
