package design

// List 是按绘制顺序排列的元素集合，由宿主持有；画布只读取并通过回调提交新列表。
type List []Element

// Find 按 id 查找元素。
func (l List) Find(id string) (Element, bool) {
	for _, el := range l {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// Index 返回 id 到下标的映射。
func (l List) Index() map[string]int {
	idx := make(map[string]int, len(l))
	for i, el := range l {
		idx[el.ID] = i
	}
	return idx
}

// Update 返回副本，其中 id 对应的元素经过 fn 修改；id 不存在时返回未修改的副本。
func (l List) Update(id string, fn func(*Element)) List {
	out := make(List, len(l))
	copy(out, l)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			break
		}
	}
	return out
}

// OfKind 过滤出指定类型的元素，保持原有顺序。
func (l List) OfKind(kind Kind) List {
	var out List
	for _, el := range l {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

// Foreground 返回除背景外的元素。
func (l List) Foreground() List {
	var out List
	for _, el := range l {
		if el.Kind != KindBackground {
			out = append(out, el)
		}
	}
	return out
}

// Validate 校验每个元素，并拒绝重复 id。
func (l List) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for _, el := range l {
		if err := el.Validate(); err != nil {
			return err
		}
		if _, dup := seen[el.ID]; dup {
			return &DuplicateIDError{ID: el.ID}
		}
		seen[el.ID] = struct{}{}
	}
	return nil
}

// DuplicateIDError 表示元素 id 重复。
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string { return "重复的元素 id: " + e.ID }
