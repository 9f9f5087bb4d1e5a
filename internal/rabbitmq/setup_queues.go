package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// LeadCreatedRoutingKey - ключ маршрутизации для принятых обращений.
const LeadCreatedRoutingKey = "lead.created"

// ContactLeadsQueue - очередь рассылки писем о новых обращениях.
const ContactLeadsQueue = "contact_leads"

func GetLeadQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ContactLeadsQueue, RoutingKey: LeadCreatedRoutingKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
