package convert

import (
	"c2cs/pkg/cfront"
	"c2cs/pkg/ctypes"
)

// recordInfo is the bookkeeping kept for one struct or union.
type recordInfo struct {
	decl *cfront.RecordDecl
	name string
	// parent is set for records declared inside another record's body; they
	// are emitted as nested types of the parent.
	parent   *recordInfo
	promoted bool
	reason   string
	// deps are the records this one holds by value or by pointer.
	deps []*cfront.RecordDecl
}

func (r *recordInfo) qualifiedName() string {
	if r.parent == nil {
		return r.name
	}
	return r.parent.qualifiedName() + "." + r.name
}

// RecordStruct registers an aggregate and the aggregates declared inside it,
// and promotes it to a class when one of its own fields cannot live in a C#
// struct. Registering the same declaration twice is a no-op.
func (c *Context) RecordStruct(r *cfront.RecordDecl) {
	c.recordStruct(r, nil)
}

func (c *Context) recordStruct(r *cfront.RecordDecl, parent *recordInfo) *recordInfo {
	if info, ok := c.byDecl[r]; ok {
		return info
	}

	name := FixReservedWords(r.Name)
	if r.Anonymous() {
		name = c.nextUnnamed()
	}
	info := &recordInfo{decl: r, name: name, parent: parent}
	c.byDecl[r] = info
	c.records = append(c.records, info)
	if parent == nil {
		c.byName[name] = info
	}

	if !r.Complete {
		c.log.Debugf("Struct %s is only forward declared, registering it empty", name)
		return info
	}
	c.log.Debugf("Analyzing struct %s", name)

	for _, f := range r.Fields {
		if f.Nested != nil {
			c.recordStruct(f.Nested, info)
		}

		d := ctypes.Resolve(f.Type)
		if d.Kind == ctypes.Struct && d.Record != nil {
			info.deps = append(info.deps, d.Record)
			c.log.Debugf("Struct %s depends on %s", name, c.recordName(d.Record, d.Name))
			if d.IsArray() {
				c.promote(info, "it contains an array of type "+c.recordName(d.Record, d.Name))
			}
		}
		switch {
		case d.Kind == ctypes.Function:
			c.promote(info, "it contains function pointers")
		case d.IsMultiDimensional():
			c.promote(info, "it contains multidimensional arrays")
		}
	}
	return info
}

func (c *Context) promote(info *recordInfo, reason string) {
	if info.promoted {
		return
	}
	info.promoted = true
	info.reason = reason
	c.log.Infof("Struct %s is marked as a class because %s", info.name, reason)
}

// ClassifyAll promotes every aggregate that depends, directly or through
// other aggregates, on a class. Promotion flows backwards along dependency
// edges from a worklist until nothing changes, so the outcome does not depend
// on the order the aggregates were registered in.
func (c *Context) ClassifyAll() {
	c.log.Debug("Checking struct relations")

	dependents := make(map[*recordInfo][]*recordInfo)
	var work []*recordInfo
	for _, info := range c.records {
		for _, d := range info.deps {
			if dep, ok := c.byDecl[d]; ok && dep != info {
				dependents[dep] = append(dependents[dep], info)
			}
		}
		if info.promoted {
			work = append(work, info)
		}
	}

	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		for _, up := range dependents[cur] {
			if up.promoted {
				continue
			}
			c.promote(up, "it references class "+cur.name)
			work = append(work, up)
		}
	}
}

// IsReferenceType reports whether the top-level aggregate called name was
// promoted to a class.
func (c *Context) IsReferenceType(name string) bool {
	info, ok := c.byName[name]
	return ok && info.promoted
}

// PromotionReason explains why name was promoted; it is empty for value
// types.
func (c *Context) PromotionReason(name string) string {
	if info, ok := c.byName[name]; ok {
		return info.reason
	}
	return ""
}
