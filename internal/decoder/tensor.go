package decoder

import (
	"fmt"
	"math"

	"github.com/born-ml/idx/internal/dtype"
)

// maxPrealloc caps the capacity reserved up front by ReadAll so a corrupt
// header cannot force a huge allocation before any data is read.
const maxPrealloc = 1 << 24

// Tensor is a fully decoded IDX payload.
type Tensor[T dtype.Element] struct {
	Shape []int // Same order as the header dimensions.
	Data  []T   // Row-major.
}

// NumItems returns the size of the outer dimension.
func (t *Tensor[T]) NumItems() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// Item returns a view of item i. The slice shares memory with Data.
func (t *Tensor[T]) Item(i int) []T {
	n := len(t.Data) / max(t.NumItems(), 1)
	return t.Data[i*n : (i+1)*n : (i+1)*n]
}

func elementCount(items, itemLen int) (int, error) {
	if itemLen != 0 && items > math.MaxInt/itemLen {
		return 0, fmt.Errorf("%w: %d items of %d elements", ErrShapeOverflow, items, itemLen)
	}
	return items * itemLen, nil
}
