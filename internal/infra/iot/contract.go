package iot

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SQSAPI операции очереди, которые использует консьюмер; *sqs.Client удовлетворяет интерфейсу
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// ParkinglotService сигналы концентратора о физическом занятии мест
type ParkinglotService interface {
	TakeSpace(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error
	LeaveSpace(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
