package kafka

import (
	"time"

	"github.com/Shopify/sarama"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	TopicsProperty                = properties.NewRequiredProperty[[]string]("topics", "")
	VersionProperty               = properties.NewProperty[string]("version", "", "2.4.0")
	BrokersProperty               = properties.NewRequiredProperty[[]string]("brokers", "")
	GroupIdProperty               = properties.NewProperty[string]("group.id", "", "kairos")
	OffsetsCommitIntervalProperty = properties.NewProperty[int]("offsets.commit.interval", "kafka commit interval sec", 5)
	OffsetsInitial                = properties.NewProperty[string]("offsets.initial", "newest or oldest", "oldest")
)

//source consumes readings from kafka: message key is the sensor key,
//message value is the sample, message timestamp is the event time.
type source struct {
	ctx kairos.Context

	logger logrus.FieldLogger

	consumerGroup sarama.ConsumerGroup
}

func (s *source) Open(ctx kairos.Context) error {
	s.ctx = ctx
	s.logger = ctx.Logger()
	config := sarama.NewConfig()
	version, err := sarama.ParseKafkaVersion(s.ctx.Properties().GetString(VersionProperty.Name()))
	if err != nil {
		return err
	}
	config.Consumer.Return.Errors = true

	config.Version = version
	config.Consumer.Offsets.AutoCommit.Interval = time.Duration(s.ctx.Properties().GetInt(OffsetsCommitIntervalProperty.Name())) * time.Second
	if s.ctx.Properties().GetString(OffsetsInitial.Name()) == "newest" {
		config.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	s.consumerGroup, err = sarama.NewConsumerGroup(s.ctx.Properties().GetStringSlice(BrokersProperty.Name()), s.ctx.Properties().GetString(GroupIdProperty.Name()), config)
	if err != nil {
		return err
	}
	return nil
}

func (s *source) Close() error {
	return nil
}

func (s *source) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{TopicsProperty, VersionProperty, BrokersProperty, GroupIdProperty, OffsetsCommitIntervalProperty, OffsetsInitial}
}

func (s *source) Collect(emitNext kairos.EmitNext) error {
	for {
		var err error
		select {
		case <-s.ctx.Done():
			s.logger.Info("ctx is done, close kafka consumer.")
			for i := 1; i < 4; i++ {
				err = s.consumerGroup.Close()
				if err != nil {
					s.logger.WithError(err).WithField("time", i).Warn("close kafka consumer error, waiting 1 second.")
					time.Sleep(1 * time.Second)
				} else {
					return nil
				}
			}
			s.logger.Error("close kafka consumer error, stop retry.")
			return err
		default:
			err = s.consumerGroup.Consume(s.ctx.Ctx(), s.ctx.Properties().GetStringSlice(TopicsProperty.Name()), &consumer{emitNext: emitNext, logger: s.logger})
			if err != nil {
				s.logger.WithError(err).Warn("collect kafka error, stopping collect.")
				return err
			}
		}
	}
}

type consumer struct {
	emitNext kairos.EmitNext
	logger   logrus.FieldLogger
}

func (c *consumer) Setup(session sarama.ConsumerGroupSession) error {
	return nil
}

func (c *consumer) Cleanup(session sarama.ConsumerGroupSession) error {
	return nil
}

func (c *consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		key := string(message.Key)
		if key == "" {
			key = message.Topic
		}
		value, err := cast.ToFloat64E(string(message.Value))
		if err != nil {
			c.logger.WithError(err).Warnf("skip non numeric message at %s/%d/%d.", message.Topic, message.Partition, message.Offset)
			session.MarkMessage(message, "")
			continue
		}
		ptr, err := record.NewReading(key, value, message.Timestamp)
		if err != nil {
			c.logger.WithError(err).Warnf("skip invalid reading at %s/%d/%d.", message.Topic, message.Partition, message.Offset)
			session.MarkMessage(message, "")
			continue
		}
		c.emitNext(ptr)
		session.MarkMessage(message, "")
	}
	return nil
}

func New() kairos.Source {
	return &source{}
}
