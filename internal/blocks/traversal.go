package blocks

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Order controls how siblings are visited by Walk.
type Order int

const (
	// OrderDocument visits blocks depth first in document order.
	OrderDocument Order = iota
	// OrderReverseSiblings pops the last pushed sibling first, so each level is
	// visited from the last child to the first. Kept for parity with editors
	// that walk the tree with a plain push/pop stack.
	OrderReverseSiblings
)

func (o Order) String() string {
	switch o {
	case OrderDocument:
		return "document"
	case OrderReverseSiblings:
		return "reverse-siblings"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder accepts "document" (default when empty) or "reverse-siblings".
func ParseOrder(raw string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "document":
		return OrderDocument, nil
	case "reverse-siblings", "reverse", "stack":
		return OrderReverseSiblings, nil
	default:
		return OrderDocument, fmt.Errorf("%w: %q", ErrUnknownOrder, raw)
	}
}

// Walk visits every descendant of root with an explicit stack. root itself is
// not visited. Returning ErrStopWalk from visit ends the walk without error.
func Walk(root *Block, order Order, visit func(*Block) error) error {
	if root == nil || visit == nil {
		return nil
	}

	stack := pushChildren(nil, root, order)
	for len(stack) > 0 {
		last := len(stack) - 1
		block := stack[last]
		stack = stack[:last]

		if err := visit(block); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
		stack = pushChildren(stack, block, order)
	}
	return nil
}

func pushChildren(stack []*Block, parent *Block, order Order) []*Block {
	children := parent.Children()
	if order == OrderDocument {
		slices.Reverse(children)
	}
	return append(stack, children...)
}

// Count returns the number of blocks below root.
func Count(root *Block) int {
	n := 0
	_ = Walk(root, OrderDocument, func(*Block) error {
		n++
		return nil
	})
	return n
}
