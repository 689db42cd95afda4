package config

const (
	MongoServiceName = "mongodb"
	KafkaServiceName = "kafka"
)

// AllServices are the dependencies reported by the health server
var AllServices = []string{MongoServiceName, KafkaServiceName}
