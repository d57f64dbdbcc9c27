package spatial

// KVPair is one key with its associated value cells.
type KVPair struct {
	Key    positionedCell
	Values []positionedCell
}

// KeyValue is the key-9 construct. Regular orientation puts keys down the
// second column (leftCol+1) starting at topRow+1, with values to the
// right of each key on the same row. Transposed puts keys along the
// second row (topRow+1), with values below each key in the same column.
// The top-left cell, if filled, is the construct's main header.
type KeyValue struct {
	bounds      Rect
	key         int
	Orientation Orientation
	MainHeader  *positionedCell
	Pairs       []KVPair
}

func (kv *KeyValue) Type() ConstructType { return TypeKeyValue }
func (kv *KeyValue) Bounds() Rect        { return kv.bounds }
func (kv *KeyValue) KeyPattern() string  { return KeyPattern(TypeKeyValue, kv.key) }
func (*KeyValue) isConstruct()           {}

// ValuesForKey returns the value cells paired with the first key whose
// content matches, or nil if no key matches.
func (kv *KeyValue) ValuesForKey(key string) []positionedCell {
	for _, p := range kv.Pairs {
		if p.Key.Content == key {
			return p.Values
		}
	}
	return nil
}

func buildKeyValue(c *CellCluster) *KeyValue {
	kv := &KeyValue{bounds: c.Bounds, key: c.Key, Orientation: c.Orientation}

	corner := Point{Row: c.Bounds.TopRow, Col: c.Bounds.LeftCol}
	if content, ok := c.Filled[corner]; ok {
		kv.MainHeader = &positionedCell{Pos: corner, Content: content, CellType: CellHeader}
	}

	if kv.Orientation == Regular {
		keyCol := c.Bounds.LeftCol + 1
		for r := c.Bounds.TopRow + 1; r <= c.Bounds.BottomRow; r++ {
			keyPos := Point{Row: r, Col: keyCol}
			keyContent, ok := c.Filled[keyPos]
			if !ok {
				continue
			}
			pair := KVPair{Key: positionedCell{Pos: keyPos, Content: keyContent, CellType: CellHeader}}
			for col := keyCol + 1; col <= c.Bounds.RightCol; col++ {
				p := Point{Row: r, Col: col}
				if content, ok := c.Filled[p]; ok {
					pair.Values = append(pair.Values, positionedCell{Pos: p, Content: content, CellType: CellBody})
				}
			}
			kv.Pairs = append(kv.Pairs, pair)
		}
		return kv
	}

	keyRow := c.Bounds.TopRow + 1
	for col := c.Bounds.LeftCol + 1; col <= c.Bounds.RightCol; col++ {
		keyPos := Point{Row: keyRow, Col: col}
		keyContent, ok := c.Filled[keyPos]
		if !ok {
			continue
		}
		pair := KVPair{Key: positionedCell{Pos: keyPos, Content: keyContent, CellType: CellHeader}}
		for r := keyRow + 1; r <= c.Bounds.BottomRow; r++ {
			p := Point{Row: r, Col: col}
			if content, ok := c.Filled[p]; ok {
				pair.Values = append(pair.Values, positionedCell{Pos: p, Content: content, CellType: CellBody})
			}
		}
		kv.Pairs = append(kv.Pairs, pair)
	}
	return kv
}
