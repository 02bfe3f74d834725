package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// NodeToRecords converts the node shape produced by Parse back to string rows:
//   - *ast.ArrayDataNode (file) → [][]string
//   - *ast.ArrayDataNode (record) → []string
//   - *ast.LiteralNode holding a string (field) → string
//
// Example:
//
//	node, _ := csv.Parse("name,age\nAlice,30\n")
//	records, _ := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) ([][]string, error) {
	file, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	records := make([][]string, 0, file.Len())
	for _, elem := range file.Elements() {
		record, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected record to be *ast.ArrayDataNode, got %T", elem)
		}

		fields := make([]string, 0, record.Len())
		for _, fieldNode := range record.Elements() {
			literal, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("expected field to be *ast.LiteralNode, got %T", fieldNode)
			}
			value, ok := literal.Value().(string)
			if !ok {
				return nil, fmt.Errorf("expected field value to be string, got %T", literal.Value())
			}
			fields = append(fields, value)
		}
		records = append(records, fields)
	}
	return records, nil
}

// RecordsToNode converts string rows to the node shape produced by Parse.
// Nodes carry zero positions.
//
// Example:
//
//	node := csv.RecordsToNode([][]string{
//	    {"name", "age"},
//	    {"Alice", "30"},
//	})
func RecordsToNode(records [][]string) *ast.ArrayDataNode {
	pos := ast.ZeroPosition()
	nodes := make([]ast.SchemaNode, len(records))
	for i, record := range records {
		fields := make([]ast.SchemaNode, len(record))
		for j, f := range record {
			fields[j] = ast.NewLiteralNode(f, pos)
		}
		nodes[i] = ast.NewArrayDataNode(fields, pos)
	}
	return ast.NewArrayDataNode(nodes, pos)
}
