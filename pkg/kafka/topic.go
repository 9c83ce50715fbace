package kafka

// TopicPrefix namespaces every storefront topic so the cluster can host
// other applications without name collisions.
const TopicPrefix = "storefront"

// Topic builds a fully qualified topic name from a domain and an action,
// e.g. Topic("cart", "updated") = "storefront.cart.updated".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
