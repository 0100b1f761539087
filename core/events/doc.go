// Package events publishes sync run outcomes to Kafka.
//
// Every finished run, successful or not, produces one RunEvent keyed by the feed URL.
// When no brokers are configured NewPublisher returns a NopPublisher and nothing is sent.
package events
