package api

import (
	"net/http"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
	"github.com/absmach/supermq"
)

var (
	_ supermq.Response = (*estimateResponse)(nil)
	_ supermq.Response = (*listEstimateResponse)(nil)
	_ supermq.Response = (*exportResponse)(nil)
	_ supermq.Response = (*statsResponse)(nil)
	_ supermq.Response = (*jobResponse)(nil)
	_ supermq.Response = (*wordCountResponse)(nil)
	_ supermq.Response = (*healthResponse)(nil)
)

type estimateResponse struct {
	estimator.EstimateRecord
	deleted bool
}

func (e estimateResponse) Code() int {
	if e.deleted {
		return http.StatusNoContent
	}

	return http.StatusOK
}

func (e estimateResponse) Headers() map[string]string {
	return map[string]string{}
}

func (e estimateResponse) Empty() bool {
	return e.deleted
}

type listEstimateResponse struct {
	estimator.EstimatePage
}

func (l listEstimateResponse) Code() int {
	return http.StatusOK
}

func (l listEstimateResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listEstimateResponse) Empty() bool {
	return false
}

type exportResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (e exportResponse) Code() int {
	return http.StatusCreated
}

func (e exportResponse) Headers() map[string]string {
	return map[string]string{
		"Location": "/estimates/" + e.ID,
	}
}

func (e exportResponse) Empty() bool {
	return false
}

type statsResponse struct {
	Latency map[string]stats.Summary `json:"latency"`
}

func (s statsResponse) Code() int {
	return http.StatusOK
}

func (s statsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statsResponse) Empty() bool {
	return false
}

type jobResponse struct {
	estimator.JobAck
}

func (j jobResponse) Code() int {
	return http.StatusOK
}

func (j jobResponse) Headers() map[string]string {
	return map[string]string{}
}

func (j jobResponse) Empty() bool {
	return false
}

type wordCountResponse struct {
	wordcount.Result
}

func (w wordCountResponse) Code() int {
	return http.StatusOK
}

func (w wordCountResponse) Headers() map[string]string {
	return map[string]string{}
}

func (w wordCountResponse) Empty() bool {
	return false
}

type healthResponse struct {
	estimator.HealthInfo
}

func (h healthResponse) Code() int {
	return http.StatusOK
}

func (h healthResponse) Headers() map[string]string {
	return map[string]string{}
}

func (h healthResponse) Empty() bool {
	return false
}
