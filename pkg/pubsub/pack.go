package pubsub

// Pack is the unit carried by a topic. Key decides the partition, so packs
// with the same key are delivered in order.
type Pack struct {
	Key []byte
	Msg []byte
}
