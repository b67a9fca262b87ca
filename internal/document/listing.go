package document

import (
	"strconv"

	"github.com/atomicstack/swb-reader/internal/format/table"
)

// Listing disassembles the program one instruction per row: index, opcode,
// operand and, for Text, the quoted text it addresses.
func (p *Program) Listing() []string {
	rows := make([][]string, 0, len(p.code))
	for i, in := range p.code {
		row := []string{strconv.Itoa(i), in.Op.String()}
		switch in.Op {
		case OpText:
			text, err := p.Text(in.Addr)
			if err != nil {
				text = err.Error()
			} else {
				text = strconv.Quote(text)
			}
			row = append(row, in.Addr.String(), text)
		case OpPush, OpPop:
			row = append(row, in.Attr.String())
		}
		rows = append(rows, row)
	}
	return table.Format(rows, []table.Alignment{table.AlignRight})
}
