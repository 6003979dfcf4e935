package ast

// Policy is the root document: an ordered sequence of containers.
//
// Order is significant (the first container is evaluated first) and is
// preserved by every engine transition. The first container is always a
// condition container; presentation layers do not offer deleting it, though
// the engine itself does not forbid it.
type Policy struct {
	Containers []*Container `json:"containers" yaml:"containers"`
}

// NewPolicy returns the initial document state: a single condition container
// with one default condition and no actions.
func NewPolicy() *Policy {
	return &Policy{Containers: []*Container{NewContainer(KindCondition)}}
}

// ContainerByID returns the container with the given id, or nil.
func (p *Policy) ContainerByID(id string) *Container {
	for _, c := range p.Containers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// First returns the first container in evaluation order, or nil for an empty
// document.
func (p *Policy) First() *Container {
	if len(p.Containers) == 0 {
		return nil
	}
	return p.Containers[0]
}

// ContainerCount returns the number of containers in the document.
func (p *Policy) ContainerCount() int {
	return len(p.Containers)
}

// Clone returns a deep copy of the document. Engine transitions clone the
// input first so the prior value is never observed mid-mutation.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	dup := &Policy{Containers: make([]*Container, 0, len(p.Containers))}
	for _, c := range p.Containers {
		dup.Containers = append(dup.Containers, c.Clone())
	}
	return dup
}
